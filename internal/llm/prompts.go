package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DetectSystem is the system prompt for new-topic detection.
const DetectSystem = "Return only valid JSON. Do not include existing taxonomy ids as new topics."

// TagSystem is the system prompt for mention tagging.
const TagSystem = "Return only valid JSON. Only emit mentions whose topic_label exactly matches an existing taxonomy id."

// DetectTopicsPrompt builds the user prompt asking for topics discussed in
// the transcript that are not yet covered by the taxonomy.
func DetectTopicsPrompt(title, meetingType string, taxonomyIDs []string, transcript string) string {
	return fmt.Sprintf(`You are maintaining a taxonomy of product discussion topics.

MEETING: %s (%s)

EXISTING TAXONOMY IDS:
%s

TRANSCRIPT:
%s

Identify topics discussed in this meeting that are NOT covered by any existing taxonomy id.

Rules:
- A new topic must be genuinely distinct, not a rewording of an existing id
- evidence is a short verbatim quote from the transcript
- why_new explains in one sentence what existing ids fail to cover
- topic_id, if given, is a lowercase-hyphenated slug
- If nothing new was discussed, return {"new_topics": []}
- Return ONLY a JSON object, no other text

Return a JSON object:
{"new_topics": [{
  "label": "Human Readable Label",
  "topic_id": "optional-slug",
  "evidence": "verbatim quote",
  "why_new": "one sentence"
}]}`, title, meetingType, idList(taxonomyIDs), transcript)
}

// TagMentionsPrompt builds the user prompt asking which taxonomy topics
// each transcript chunk mentions.
func TagMentionsPrompt(taxonomyIDs []string, chunksJSON []byte) string {
	return fmt.Sprintf(`You are tagging meeting transcript chunks with known discussion topics.

TAXONOMY IDS:
%s

CHUNKS (JSON):
%s

For every chunk that mentions a taxonomy topic, emit one mention.

Rules:
- topic_label must exactly match one of the taxonomy ids above
- evidence is a short verbatim quote from the chunk
- relevance is in [0,1]: how central the topic is to the chunk
- A chunk may yield zero, one, or several mentions
- Return ONLY a JSON object, no other text

Return a JSON object:
{"mentions": [{
  "chunk_id": "chunk id",
  "topic_id": "optional id",
  "topic_label": "taxonomy id",
  "evidence": "verbatim quote",
  "relevance": 0.8
}]}`, idList(taxonomyIDs), chunksJSON)
}

func idList(ids []string) string {
	if len(ids) == 0 {
		return "(none yet)"
	}
	return "- " + strings.Join(ids, "\n- ")
}

// DecodeJSON extracts a JSON object or array from an LLM response that may
// be wrapped in markdown code fences or surrounding prose, and unmarshals
// it into v.
func DecodeJSON(content string, v any) error {
	content = strings.TrimSpace(content)

	// Strip markdown code fences if present
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) > 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
		content = strings.TrimSpace(content)
	}

	start := strings.IndexAny(content, "[{")
	if start < 0 {
		return fmt.Errorf("no JSON value found in response")
	}
	var end int
	if content[start] == '[' {
		end = strings.LastIndex(content, "]")
	} else {
		end = strings.LastIndex(content, "}")
	}
	if end <= start {
		return fmt.Errorf("unterminated JSON value in response")
	}

	if err := json.Unmarshal([]byte(content[start:end+1]), v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
