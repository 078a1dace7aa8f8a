package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"
)

// OllamaEmbedder fetches embeddings from Ollama's embed API. The endpoint
// accepts a list input, so a whole side embeds in one request.
type OllamaEmbedder struct {
	url    string
	model  string
	client *http.Client
}

// NewOllamaEmbedder creates an embedder using Ollama's API.
func NewOllamaEmbedder(url, model string) *OllamaEmbedder {
	return &OllamaEmbedder{
		url:    url,
		model:  model,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// EmbedBatch embeds all texts in a single request. An empty input returns
// an empty result without touching the network.
func (o *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(map[string]any{
		"model": o.model,
		"input": texts,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.url+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embed response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embed status %d: %s", resp.StatusCode, respBody)
	}

	var result struct {
		Embeddings [][]float64 `json:"embeddings"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d texts", len(result.Embeddings), len(texts))
	}
	return result.Embeddings, nil
}

// ProbeOllama checks if Ollama is reachable and the embedding model is available.
func ProbeOllama(url, model string) bool {
	client := &http.Client{Timeout: 3 * time.Second}
	reqBody, _ := json.Marshal(map[string]any{
		"model": model,
		"input": "test",
	})
	resp, err := client.Post(url+"/api/embed", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// TFIDFEmbedder generates TF-IDF bag-of-words embeddings as a fallback
// when no embedding provider is reachable. It is fitted once from a
// corpus, typically taxonomy glosses and candidate texts.
type TFIDFEmbedder struct {
	vocab []string           // ordered vocabulary (top terms by doc frequency)
	idf   map[string]float64 // inverse document frequency per term
	dims  int
}

// NewTFIDFEmbedder fits a TF-IDF embedder on the given corpus.
func NewTFIDFEmbedder(corpus []string, maxTerms int) *TFIDFEmbedder {
	if maxTerms <= 0 {
		maxTerms = 512
	}

	var docs []string
	for _, doc := range corpus {
		if strings.TrimSpace(doc) != "" {
			docs = append(docs, doc)
		}
	}

	// Document frequency per term
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range tokenize(doc) {
			if !seen[term] {
				df[term]++
				seen[term] = true
			}
		}
	}

	type termFreq struct {
		term string
		freq int
	}
	var terms []termFreq
	for t, f := range df {
		terms = append(terms, termFreq{t, f})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].freq != terms[j].freq {
			return terms[i].freq > terms[j].freq
		}
		return terms[i].term < terms[j].term
	})

	dims := maxTerms
	if len(terms) < dims {
		dims = len(terms)
	}
	if dims == 0 {
		dims = 1 // avoid zero-length vectors
	}

	vocab := make([]string, dims)
	idf := make(map[string]float64)
	numDocs := float64(len(docs))
	if numDocs == 0 {
		numDocs = 1
	}

	for i := 0; i < dims && i < len(terms); i++ {
		vocab[i] = terms[i].term
		// IDF = log(N / df) + 1 (smoothed)
		idf[vocab[i]] = math.Log(numDocs/float64(terms[i].freq)) + 1.0
	}

	return &TFIDFEmbedder{
		vocab: vocab,
		idf:   idf,
		dims:  dims,
	}
}

// EmbedBatch generates one normalized TF-IDF vector per text. No network,
// but the batched contract is honored for interchangeability.
func (t *TFIDFEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = t.embed(text)
	}
	return out, nil
}

func (t *TFIDFEmbedder) embed(text string) []float64 {
	tokens := tokenize(text)
	vec := make([]float64, t.dims)
	if len(tokens) == 0 {
		return vec
	}

	tf := make(map[string]int)
	for _, tok := range tokens {
		tf[tok]++
	}
	maxTF := 0
	for _, c := range tf {
		if c > maxTF {
			maxTF = c
		}
	}

	for i, term := range t.vocab {
		count := tf[term]
		if count == 0 {
			continue
		}
		// Augmented TF to prevent bias towards longer documents
		augTF := 0.5 + 0.5*float64(count)/float64(maxTF)
		idf := t.idf[term]
		if idf == 0 {
			idf = 1.0
		}
		vec[i] = augTF * idf
	}

	l2normalize(vec)
	return vec
}

// tokenize splits text into lowercase tokens, stripping punctuation.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			current.WriteRune(r)
		} else {
			if current.Len() > 1 { // skip single-char tokens
				tokens = append(tokens, current.String())
			}
			current.Reset()
		}
	}
	if current.Len() > 1 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// l2normalize performs in-place L2 normalization.
func l2normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
