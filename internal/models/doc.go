// Package models defines the request-scoped entities of the song recommendation pipeline.
//
// The package contains two categories of types:
//
// 1. Pipeline values, produced and consumed by the tasks package:
//   - [CanonicalSong] : The (title, artist) pair treated as ground truth after validation
//   - [ValidationResult] : The validator's verdict on a raw query
//   - [Recommendation] : A similar song with rationale and a confirmed video link
//   - [RecommendationSet] : The success payload
//
// 2. Wire payloads returned by the HTTP surface and the CLI:
//   - [RecommendationSet] : 200 body
//   - [FailureResponse] : 400 body with correction hint and alternatives
//   - [ErrorResponse] : 500 body
//
// Nothing here is persisted; every value lives for one orchestration call.
package models
