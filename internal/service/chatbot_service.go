package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	"github.com/noah-isme/campus-assistant-api/pkg/textnorm"
)

// ChatbotService answers questions from the static knowledge tables.
type ChatbotService struct {
	public  []knowledgeEntry
	private []knowledgeEntry
	metrics *MetricsService
	logger  *zap.Logger
}

// NewChatbotService constructs a ChatbotService over the built-in tables.
func NewChatbotService(metrics *MetricsService, logger *zap.Logger) *ChatbotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatbotService{public: publicKnowledge, private: privateKnowledge, metrics: metrics, logger: logger}
}

// Answer resolves query for the given role. The first entry whose keywords
// match wins, public entries before private ones; only students reach the
// private table.
func (s *ChatbotService) Answer(_ context.Context, query string, role models.UserRole) dto.ChatbotAnswer {
	answer, ok := Match(query, s.tiersFor(role)...)
	s.metrics.RecordChatbotQuery(role, ok)
	if !ok {
		s.logger.Debug("chatbot fallback", zap.String("role", string(role)))
	}
	return dto.ChatbotAnswer{OK: ok, Answer: answer}
}

// Health reports the matcher mode.
func (s *ChatbotService) Health() dto.ChatbotHealth {
	return dto.ChatbotHealth{OK: true, Mode: "static", Ready: len(s.public) > 0}
}

func (s *ChatbotService) tiersFor(role models.UserRole) [][]knowledgeEntry {
	switch role {
	case models.RoleStudent:
		return [][]knowledgeEntry{s.public, s.private}
	case models.RoleGuest, models.RoleModerator, models.RoleAdmin:
		return [][]knowledgeEntry{s.public}
	}
	return [][]knowledgeEntry{s.public}
}

// Match walks the tiers in order and returns the first matching answer, or
// FallbackAnswer and false.
func Match(query string, tiers ...[]knowledgeEntry) (string, bool) {
	q := textnorm.Query(query)
	qc := textnorm.Compact(q)
	for _, tier := range tiers {
		for _, entry := range tier {
			if keywordsMatch(q, qc, entry.Keywords) {
				return entry.Answer, true
			}
		}
	}
	return FallbackAnswer, false
}

func keywordsMatch(q, qc string, keywords []string) bool {
	for _, kw := range keywords {
		k := textnorm.Query(kw)
		if strings.Contains(q, k) || strings.Contains(qc, textnorm.Compact(k)) {
			return true
		}
		matched, tokens := true, 0
		for _, tok := range strings.Split(k, " ") {
			if tok == "" {
				continue
			}
			tokens++
			if !strings.Contains(q, tok) {
				matched = false
				break
			}
		}
		if tokens > 0 && matched {
			return true
		}
	}
	return false
}
