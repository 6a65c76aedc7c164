package query

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks dory-ai/internal/query Engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"dory-ai/internal/contextutil"
	"dory-ai/internal/llm"
	"dory-ai/internal/price"
	"dory-ai/internal/storage"
	"dory-ai/internal/tokens"
	"dory-ai/internal/vault"
)

// Engine answers chat messages and reports the citations behind the last
// answer of a session.
type Engine interface {
	// Chat answers one message in the session identified by user and
	// channel. An empty message yields an empty reply.
	Chat(ctx context.Context, userID, channelID, text string) (string, error)
	// Sources returns the citation lines of the session's last grounded
	// answer, or an empty slice when none has been recorded.
	Sources(ctx context.Context, userID, channelID string) ([]string, error)
}

// Orchestrator implements Engine on top of the vault index, the answer
// generator and the session store.
type Orchestrator struct {
	index       *vault.Index
	generator   llm.Generator
	sessions    storage.SessionStore
	maxSnippets int
	timeout     time.Duration
}

// NewOrchestrator creates a new Orchestrator. maxSnippets caps how many
// sections back a generic answer; timeout bounds each generator call.
func NewOrchestrator(index *vault.Index, generator llm.Generator, sessions storage.SessionStore, maxSnippets int, timeout time.Duration) *Orchestrator {
	return &Orchestrator{
		index:       index,
		generator:   generator,
		sessions:    sessions,
		maxSnippets: maxSnippets,
		timeout:     timeout,
	}
}

// Chat answers one message. Identity questions and unanswerable questions
// short-circuit with fixed replies; everything else goes through the
// generator with whatever snippets the question's intent calls for.
func (o *Orchestrator) Chat(ctx context.Context, userID, channelID, text string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	key := storage.SessionKey(userID, channelID)

	if IsIdentityQuestion(text) {
		o.persist(ctx, key, text, IdentityLine)
		return IdentityLine, nil
	}

	infoSeeking := IsInfoSeeking(text)
	priceQuery := IsPriceQuery(text)

	var snippets []vault.Snippet
	if infoSeeking {
		if o.index.Empty() && o.index.Root() != "" {
			o.index.Build()
			logger.InfoContext(ctx, "vault index built lazily",
				"notes", o.index.NoteCount(), "sections", o.index.SectionCount())
		}

		switch {
		case IsCountQuery(text) && IsIndustryQuery(text):
			snippets = BrancherCountSnippets(o.index)
			if len(snippets) == 0 {
				o.persist(ctx, key, text, NoInfoLine)
				return NoInfoLine, nil
			}

		case priceQuery:
			candidates, aliasPaths := o.priceCandidateSections(text)
			if len(candidates) == 0 {
				o.persist(ctx, key, text, NoInfoLine)
				return NoInfoLine, nil
			}
			items := price.Extract(candidates)
			if len(items) > 0 && len(aliasPaths) == 0 {
				items = price.Filter(items, text)
			}
			if len(items) == 0 {
				inclusion := price.ExtractInclusionSnippets(candidates, text, price.DefaultInclusionLimit)
				if len(inclusion) == 0 {
					o.persist(ctx, key, text, NoInfoLine)
					return NoInfoLine, nil
				}
				// The question is about what a package includes, not
				// its price. Drop the price formatting instruction.
				snippets = inclusion
				priceQuery = false
			} else {
				snippets = PriceSnippets(items)
			}

		default:
			var candidates []vault.Section
			if aliasPaths := o.index.FindPathsByAlias(text); len(aliasPaths) > 0 {
				candidates = rankSections(o.index.SectionsForPaths(aliasPaths), text, o.maxSnippets)
			} else {
				candidates = o.index.FindSections(text, o.maxSnippets)
			}
			if len(candidates) == 0 {
				o.persist(ctx, key, text, NoInfoLine)
				return NoInfoLine, nil
			}
			snippets = BuildSnippets(candidates, DefaultSnippetBudget)
		}
	}

	history, err := o.sessions.History(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to load session history: %w", err)
	}
	conversation := toConversation(history)
	conversation = append(conversation, llm.Turn{Role: "user", Content: text})

	systemPrompt := SystemPrompt(infoSeeking, priceQuery)

	reply, err := o.generate(ctx, systemPrompt, conversation, snippets)
	if err != nil {
		if failure := failureReply(err); failure != "" {
			logger.ErrorContext(ctx, "answer generator failed",
				"category", string(llm.CategoryOf(err)), "error", err)
			o.persist(ctx, key, text, failure)
			return failure, nil
		}
		return "", err
	}

	if infoSeeking {
		if strings.TrimSpace(reply) == NoInfoLine {
			o.persist(ctx, key, text, reply)
			return reply, nil
		}
		if !strings.Contains(reply, "Sources:") {
			logger.WarnContext(ctx, "answer missing sources, retrying")
			stronger := systemPrompt + " You MUST include a Sources section with citations."
			reply, err = o.generate(ctx, stronger, conversation, snippets)
			if err != nil {
				if failure := failureReply(err); failure != "" {
					logger.ErrorContext(ctx, "answer generator failed on retry",
						"category", string(llm.CategoryOf(err)), "error", err)
					o.persist(ctx, key, text, failure)
					return failure, nil
				}
				return "", err
			}
		}
		var sources []string
		reply, sources = EnsureSources(reply, snippets)
		if err := o.sessions.SetSources(ctx, key, sources); err != nil {
			logger.WarnContext(ctx, "failed to record sources", "error", err)
		}
	}

	o.persist(ctx, key, text, reply)
	return reply, nil
}

// Sources returns the citation lines of the session's last grounded answer.
func (o *Orchestrator) Sources(ctx context.Context, userID, channelID string) ([]string, error) {
	return o.sessions.Sources(ctx, storage.SessionKey(userID, channelID))
}

func (o *Orchestrator) generate(ctx context.Context, systemPrompt string, conversation []llm.Turn, snippets []vault.Snippet) (string, error) {
	genCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	return o.generator.Generate(genCtx, systemPrompt, conversation, snippets)
}

// persist appends the exchange to the session history. A failed write is
// logged but does not fail the chat.
func (o *Orchestrator) persist(ctx context.Context, sessionKey, userText, reply string) {
	history, err := o.sessions.History(ctx, sessionKey)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to load history for update", "error", err)
		history = nil
	}
	history = append(history,
		storage.Turn{Role: "user", Content: userText},
		storage.Turn{Role: "assistant", Content: reply},
	)
	if err := o.sessions.UpdateHistory(ctx, sessionKey, history); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to update history", "error", err)
	}
}

// priceCandidateSections gathers the sections a price question should be
// answered from. Alias matches win; otherwise the query is reduced to its
// content tokens, the best-scoring notes are picked and expanded to all of
// their sections.
func (o *Orchestrator) priceCandidateSections(text string) ([]vault.Section, []string) {
	if aliasPaths := o.index.FindPathsByAlias(text); len(aliasPaths) > 0 {
		return o.index.SectionsForPaths(aliasPaths), aliasPaths
	}

	reduced := strings.Join(tokens.QueryTokens(text), " ")
	if reduced == "" {
		reduced = text
	}
	scored := o.index.FindSections(reduced, o.maxSnippets*4)
	if len(scored) == 0 {
		return nil, nil
	}
	topPaths := selectTopPaths(scored, 2)
	if expanded := o.index.SectionsForPaths(topPaths); len(expanded) > 0 {
		return expanded, nil
	}
	return scored, nil
}

// selectTopPaths ranks the distinct paths of scored sections by their summed
// scores. Ties keep first-seen order.
func selectTopPaths(sections []vault.Section, limit int) []string {
	scores := make(map[string]float64)
	var order []string
	for _, section := range sections {
		if _, ok := scores[section.Path]; !ok {
			order = append(order, section.Path)
		}
		scores[section.Path] += section.Score
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// rankSections re-scores the given sections against the query without the
// alias boost and returns the topK best with positive scores.
func rankSections(sections []vault.Section, query string, topK int) []vault.Section {
	queryLower := strings.ToLower(query)
	queryTokens := tokens.Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	var scored []vault.Section
	for _, section := range sections {
		textLower := strings.ToLower(section.Text)
		headingLower := strings.ToLower(section.Heading)
		pathLower := strings.ToLower(section.Path)
		score := 0.0
		for _, token := range queryTokens {
			score += float64(strings.Count(textLower, token))
			score += 3.0 * float64(strings.Count(headingLower, token))
			score += 2.0 * float64(strings.Count(pathLower, token))
		}
		if strings.Contains(textLower, queryLower) {
			score += 8.0
		}
		if score > 0 {
			ranked := section
			ranked.Score = score
			scored = append(scored, ranked)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// failureReply maps a categorized generator failure to the reply shown to
// the user. Uncategorized errors yield "" and should be propagated.
func failureReply(err error) string {
	switch llm.CategoryOf(err) {
	case llm.FailureTimeout:
		return "The answer generator timed out."
	case llm.FailureUnavailable:
		return "The answer generator is unavailable."
	case llm.FailureProcess:
		return "The answer generator failed."
	case llm.FailureTransport:
		return "The answer generator returned an unusable response."
	default:
		return ""
	}
}

func toConversation(turns []storage.Turn) []llm.Turn {
	conversation := make([]llm.Turn, 0, len(turns)+1)
	for _, t := range turns {
		conversation = append(conversation, llm.Turn{Role: t.Role, Content: t.Content})
	}
	return conversation
}
