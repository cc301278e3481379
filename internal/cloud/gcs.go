// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cloud

import (
	"fmt"
	"path"
	"strings"
)

const gcsScheme = "gs://"

// GCSObject identifies an object in Cloud Storage.
type GCSObject struct {
	Bucket   string
	Name     string
	MIMEType string
}

// URI returns the gs:// form of the object.
func (o *GCSObject) URI() string {
	return gcsScheme + o.Bucket + "/" + o.Name
}

// NewGCSObject joins prefix and name into an object name inside bucket.
func NewGCSObject(bucket, prefix, name, mimeType string) *GCSObject {
	return &GCSObject{Bucket: bucket, Name: strings.TrimPrefix(path.Join(prefix, name), "/"), MIMEType: mimeType}
}

// ParseGCSURI splits a gs://bucket/object URI.
func ParseGCSURI(uri string) (*GCSObject, error) {
	if !strings.HasPrefix(uri, gcsScheme) {
		return nil, fmt.Errorf("invalid GCS URI format: %s", uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, gcsScheme), "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid GCS URI: unable to determine bucket and object from %s", uri)
	}
	return &GCSObject{Bucket: parts[0], Name: parts[1]}, nil
}
