package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Completions are cached because prompts run at temperature zero: identical
// input yields identical guidance, so a repeat submission can skip the
// provider call entirely. Only completions that parsed successfully are
// stored.
type cachedCompletion struct {
	Model         string `json:"model"`
	PromptVersion string `json:"prompt_version"`
	RawText       string `json:"raw_text"`
	CachedAt      string `json:"cached_at"`
}

func cacheKey(input, context, model string) string {
	h := sha256.New()
	h.Write([]byte(input))
	h.Write([]byte{0})
	h.Write([]byte(context))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(promptVersion))
	return hex.EncodeToString(h.Sum(nil))
}

func cachePath(dataDir, key string) string {
	return filepath.Join(dataDir, "cache", key+".json")
}

func loadCache(dataDir, key string) (*cachedCompletion, error) {
	b, err := os.ReadFile(cachePath(dataDir, key))
	if err != nil {
		return nil, err
	}
	var out cachedCompletion
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func saveCache(dataDir, key string, out cachedCompletion) error {
	path := cachePath(dataDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if out.CachedAt == "" {
		out.CachedAt = time.Now().UTC().Format(time.RFC3339)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
