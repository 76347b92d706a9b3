// Package tasks runs the song recommendation pipeline with real-time progress reporting.
//
// # Pipeline
//
// [Orchestrator.Handle] drives one request through these steps:
//
//  1. Reject blank input without contacting any external service
//  2. [SongValidator.Validate] : ask the model whether the input names a real song
//     - Resolves partial titles, typos and video links to a canonical title and artist
//     - [TypoMismatch] overrides valid verdicts whose title is a near miss of the input
//  3. On an invalid verdict, [SuggestionGenerator.Suggest] proposes alternatives (best effort)
//  4. On a valid verdict, [RecommendationEngine.Recommend] asks for similar songs and resolves
//     each video link concurrently through [LinkResolver]
//
// # Model output
//
// Model replies are untrusted text. [Extract] removes code fences and the package parses the
// rest with gjson, failing with shared.ErrMalformedResponse on anything of the wrong shape.
//
// # Video links
//
// [LinkResolver] never returns a link that has not been confirmed by a services.LinkConfirmer;
// every failure collapses to models.UnresolvedVideoURL.
//
// # Progress Reporting
//
// All operations accept an optional channel of [ProgressUpdate]. Sends use select with default
// so a slow or absent reader never blocks the pipeline.
package tasks
