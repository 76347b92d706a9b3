package tasks

import (
	"fmt"

	"github.com/desertthunder/songrec/internal/models"
)

func validationPrompt(input string) string {
	return fmt.Sprintf(`You are a music expert. Decide whether this input refers to a real, released song: "%s"

Answer with a single JSON object and nothing else:
{
  "isValid": true or false,
  "songName": "the song's actual title, or null if you cannot identify one",
  "artist": "the performing artist, or null if you cannot identify one",
  "reason": "one short sentence explaining the verdict"
}

Rules:
- If the input is a YouTube link, identify the song the video contains.
- If the input is an incomplete or partial title, identify the most likely song it refers to.
- If the input contains typos or misspellings, set isValid to false and put the correctly spelled title in songName.
- Set isValid to false whenever you are not confident the song exists.`, input)
}

func suggestionPrompt(input string, count int) string {
	return fmt.Sprintf(`A user searched for the song "%s" but it could not be verified.
Suggest %d real songs they most likely meant. Consider:
1. Common typos and misspellings
2. Titles that sound alike
3. Popular songs that match the partial input
4. Songs sharing words or phrases with the input

Include the most likely correctly spelled title.
Return ONLY a JSON array of %d strings, for example: ["Song Name 1", "Song Name 2", "Song Name 3"]`, input, count, count)
}

func recommendationPrompt(song models.CanonicalSong, count int) string {
	return fmt.Sprintf(`You are a music recommendation expert. Recommend %d songs similar to the verified song "%s".
Weigh genre, style, mood and era.

For each recommendation give the song name, the artist name, and a short reason it is similar (at most 100 characters).

Return ONLY this JSON object, with no markdown and no extra text:
{
  "recommendations": [
    {
      "name": "Song Name",
      "artist": "Artist Name",
      "reason": "Brief reason for recommendation"
    }
  ]
}

The recommendations array must contain exactly %d entries.`, count, song.Label(), count)
}

func videoLinkPrompt(title, artist string) string {
	return fmt.Sprintf(`Give the YouTube URL most likely to play the song "%s" by "%s".
Prefer the official music video or the official audio upload.
Return ONLY the URL with no other text.
If you are not sure, return exactly: %s`, title, artist, models.UnresolvedVideoURL)
}
