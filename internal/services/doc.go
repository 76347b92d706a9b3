// Package services holds the external capabilities consumed by the recommendation pipeline.
//
// # Interfaces
//
// The pipeline depends on two narrow interfaces so every external call can be replaced in tests:
//   - [TextModel] : prompt in, raw text out
//   - [LinkConfirmer] : video id in, existence verdict out
//
// # Gemini
//
// [GeminiService] implements [TextModel] with the google.golang.org/genai SDK. It treats an empty
// reply as an error and leaves every other interpretation of the text to the caller.
//
// # YouTube
//
// [YouTubeService] implements [LinkConfirmer] against the public oEmbed endpoint through the
// generic [APIService] GET client. A video counts as confirmed only when the endpoint answers
// 2xx with a JSON document carrying a title.
//
// # Error Handling
//
// Constructors wrap typed errors from the shared package (shared.ErrMissingCredentials).
// Runtime failures are returned unwrapped and classified by the pipeline.
package services
