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

package test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// TinyPNG is a 4x4 solid PNG.
func TinyPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// NewsAPIResponse is a top-headlines payload with one article lacking a
// title, one lacking description and image, and one complete article.
const NewsAPIResponse = `{
  "status": "ok",
  "totalResults": 3,
  "articles": [
    {
      "source": {"id": null, "name": "Example Wire"},
      "title": "   ",
      "description": "Dropped for having no title.",
      "url": "https://example.com/untitled",
      "urlToImage": "https://example.com/untitled.jpg",
      "publishedAt": "2024-05-01T10:00:00Z"
    },
    {
      "source": {"id": null, "name": "Example Times"},
      "title": "City opens new bridge",
      "description": null,
      "url": "https://example.com/bridge",
      "urlToImage": null,
      "publishedAt": "2024-05-01T11:00:00Z"
    },
    {
      "source": {"id": "example-news", "name": "Example News"},
      "title": "Scientists map deep ocean floor",
      "description": "A new survey charts the trench in detail.",
      "url": "https://example.com/ocean",
      "urlToImage": "https://example.com/ocean.jpg",
      "publishedAt": "2024-05-01T12:00:00Z"
    }
  ]
}`

// NewsAPIEmpty is a successful response with no articles.
const NewsAPIEmpty = `{"status": "ok", "totalResults": 0, "articles": []}`

// PexelsResponse returns a photo whose large source is imageURL.
func PexelsResponse(imageURL string) string {
	return `{"page": 1, "per_page": 1, "photos": [{"id": 1, "src": {"original": "` + imageURL + `", "large": "` + imageURL + `"}}]}`
}

// PexelsEmpty is a search with no matches.
const PexelsEmpty = `{"page": 1, "per_page": 1, "photos": [], "total_results": 0}`

// RSSFeed has two items; the second carries its image inside HTML.
const RSSFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com</link>
    <description>Top stories</description>
    <item>
      <title>Markets rally on rate news</title>
      <link>https://example.com/markets</link>
      <description>Stocks rose sharply.</description>
      <enclosure url="https://example.com/markets.jpg" type="image/jpeg" length="1000"/>
      <pubDate>Wed, 01 May 2024 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Storm heads north</title>
      <link>https://example.com/storm</link>
      <description><![CDATA[<p>Residents <b>prepare</b> for winds.</p><img src="https://example.com/storm.png"/>]]></description>
      <pubDate>Wed, 01 May 2024 13:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`
