package audit

import (
	"errors"
	"log"
	"net/http"

	"accesslens/internal/config"
	"accesslens/internal/gemini"
	"accesslens/internal/httputil"
	"accesslens/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

const maxOutputTokens = 2048

// Handler handles POST /api/run-audit: validate, rate-limit, classify, then
// prompt the completion gateway and normalize whatever comes back.
// Validation and rate limiting always precede the gateway call so caller
// faults never spend provider budget.
func Handler(completer gemini.Completer, limiter *ratelimit.Limiter, dataDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := httputil.ReadBody(c.Writer, c.Request, config.MaxBodyBytes)
		if err != nil {
			if errors.Is(err, httputil.ErrBodyTooLarge) {
				respondError(c, http.StatusRequestEntityTooLarge, KindPayloadTooLarge, "Request body too large.")
				return
			}
			respondError(c, http.StatusBadRequest, KindInvalidRequest, "Unable to read request body.")
			return
		}

		req, reqErr := ValidateRequest(body)
		if reqErr != nil {
			respondError(c, reqErr.Status, reqErr.Kind, reqErr.Message)
			return
		}

		if !limiter.Allow(ratelimit.ClientKey(c.Request)) {
			respondError(c, http.StatusTooManyRequests, KindRateLimited, "Too many requests. Try again in a minute.")
			return
		}

		// Advisory only: flags annotate the result, the prompt owns scope
		// enforcement.
		signals := Classify(req.Input)

		model := gemini.ModelName()
		key := cacheKey(req.Input, req.Context, model)
		text := ""
		fromCache := false
		if cached, err := loadCache(dataDir, key); err == nil && cached.RawText != "" {
			text = cached.RawText
			model = cached.Model
			fromCache = true
		}

		if !fromCache {
			resp, err := completer.Complete(c.Request.Context(), gemini.CompletionRequest{
				SystemPrompt:    BuildSystemPrompt(),
				UserPrompt:      BuildUserPrompt(promptInput(req)),
				ResponseSchema:  auditResponseSchema(),
				Temperature:     0,
				MaxOutputTokens: maxOutputTokens,
			})
			if err != nil {
				if errors.Is(err, gemini.ErrNotConfigured) {
					respondError(c, http.StatusInternalServerError, KindConfigError, "GEMINI_API_KEY is not configured.")
					return
				}
				// Never log the submitted description alongside failures.
				log.Printf("completion: %v", err)
				respondError(c, http.StatusInternalServerError, KindAuditFailed, "The audit could not be completed. Try again shortly.")
				return
			}
			text = resp.Text
			model = resp.Model
		}

		obj, err := ParseCompletion(text, model)
		if err != nil {
			log.Printf("parse completion: %v", err)
			respondError(c, http.StatusInternalServerError, KindInvalidResponse, "The audit service returned an unreadable response.")
			return
		}

		if !fromCache {
			if err := saveCache(dataDir, key, cachedCompletion{Model: model, PromptVersion: promptVersion, RawText: text}); err != nil {
				log.Printf("cache save: %v", err)
			}
		}

		result := Normalize(obj)
		result.LowConfidence = signals.LowSignal
		result.NearMinimumDetail = signals.NearMinimumDetail
		c.JSON(http.StatusOK, result)
	}
}

// NoMethod answers unsupported verbs on registered routes.
func NoMethod(c *gin.Context) {
	respondError(c, http.StatusMethodNotAllowed, KindMethodNotAllowed, "Use POST for this endpoint.")
}

func promptInput(req Request) string {
	if req.Context == "" {
		return req.Input
	}
	return req.Input + "\n\nAdditional context:\n" + req.Context
}

func respondError(c *gin.Context, status int, kind, message string) {
	c.JSON(status, gin.H{"error": kind, "message": message})
}
