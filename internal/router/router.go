// Package router classifies inbound webhook messages into one of the
// mutually exclusive chama flows and dispatches to it.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/chamabot/chamabot/internal/assistant"
	"github.com/chamabot/chamabot/internal/balance"
	"github.com/chamabot/chamabot/internal/contribution"
	"github.com/chamabot/chamabot/internal/member"
	"github.com/chamabot/chamabot/internal/metrics"
)

// ErrMissingIdentity indicates an inbound event without a phone number.
var ErrMissingIdentity = errors.New("missing phone number")

// Canonical reply texts.
const (
	ReplyMissingPhone  = "⚠️ Missing phone number."
	replyPromptName    = "👋 Please reply with your full name to join the chama."
	replyAck           = "✅ You're already registered, type 'Check Balance' or 'I paid 500 for welfare'."
	replyNotRegistered = "⚠️ You're not registered. Please send your full name."
	replyUnparsable    = "⚠️ I couldn't understand that. Try: 'I paid 500 for welfare'."
	replyNoRecords     = "⚠️ You haven't made any contributions yet."
)

var (
	contributionTrigger = regexp.MustCompile(`\bpaid\b|\bsent\b|\btuma\b`)
	balanceTrigger      = regexp.MustCompile(`\bbalance\b|\bowe\b|\bhave i paid\b|nimeshalipa`)
)

// Inbound is one webhook event. Name is the optional explicit name field.
type Inbound struct {
	Phone   string
	Name    string
	Message string
}

// inboundCtx carries the event plus state resolved once per request.
type inboundCtx struct {
	Inbound
	lowered    string
	member     member.Member
	registered bool
	admin      bool
}

// intentRoute pairs a predicate with its flow. Routes are evaluated in
// declaration order and the first match wins; the order encodes the product's
// precedence rules and is asserted by tests.
type intentRoute struct {
	name   string
	match  func(*inboundCtx) bool
	handle func(context.Context, *inboundCtx) (string, error)
}

// Router dispatches inbound messages across the chama flows.
type Router struct {
	members       *member.Service
	contributions *contribution.Service
	delegate      *assistant.Delegate
	expected      balance.Expected
	logger        *slog.Logger
	routes        []intentRoute
}

// New wires the router. Precedence: registration for unregistered callers,
// then contribution keywords over balance keywords (the sets overlap on
// "paid"), then the admin-gated assistant, then a generic acknowledgment.
func New(members *member.Service, contributions *contribution.Service, delegate *assistant.Delegate, expected balance.Expected, logger *slog.Logger) *Router {
	r := &Router{
		members:       members,
		contributions: contributions,
		delegate:      delegate,
		expected:      expected,
		logger:        logger,
	}
	r.routes = []intentRoute{
		{
			name:   "register",
			match:  func(in *inboundCtx) bool { return !in.registered && (in.Name != "" || looksLikeName(in.lowered)) },
			handle: r.handleRegistration,
		},
		{
			name:   "prompt",
			match:  func(in *inboundCtx) bool { return !in.registered },
			handle: func(context.Context, *inboundCtx) (string, error) { return replyPromptName, nil },
		},
		{
			name:   "contribution",
			match:  func(in *inboundCtx) bool { return contributionTrigger.MatchString(in.lowered) },
			handle: r.handleContribution,
		},
		{
			name:   "balance",
			match:  func(in *inboundCtx) bool { return balanceTrigger.MatchString(in.lowered) },
			handle: r.handleBalance,
		},
		{
			name:   "assistant",
			match:  func(in *inboundCtx) bool { return in.admin },
			handle: r.handleAssistant,
		},
		{
			name:   "ack",
			match:  func(*inboundCtx) bool { return true },
			handle: func(context.Context, *inboundCtx) (string, error) { return replyAck, nil },
		},
	}
	return r
}

// Handle resolves the caller once, walks the ordered routes and runs the
// first matching flow. Each webhook call is independent; no conversation
// state survives between calls.
func (r *Router) Handle(ctx context.Context, in Inbound) (string, error) {
	if strings.TrimSpace(in.Phone) == "" {
		return "", ErrMissingIdentity
	}

	resolved := &inboundCtx{
		Inbound: in,
		lowered: strings.ToLower(strings.TrimSpace(in.Message)),
	}

	m, err := r.members.Lookup(ctx, in.Phone)
	switch {
	case err == nil:
		resolved.member = m
		resolved.registered = true
	case errors.Is(err, member.ErrNotFound):
	default:
		return "", err
	}

	role, err := r.members.Classify(ctx, in.Phone)
	if err != nil {
		return "", err
	}
	resolved.admin = role == member.RoleAdmin

	for _, route := range r.routes {
		if !route.match(resolved) {
			continue
		}
		metrics.MessagesTotal.WithLabelValues(route.name).Inc()
		r.logger.Debug("message routed", "intent", route.name, "phone", in.Phone)
		return route.handle(ctx, resolved)
	}

	return replyAck, nil
}

// looksLikeName reports whether a bare message reads as a person's name:
// it contains whitespace and none of the trigger keywords.
func looksLikeName(lowered string) bool {
	if !strings.Contains(lowered, " ") {
		return false
	}
	return !contributionTrigger.MatchString(lowered) && !balanceTrigger.MatchString(lowered)
}

func (r *Router) handleRegistration(ctx context.Context, in *inboundCtx) (string, error) {
	name := in.Name
	if name == "" {
		name = strings.TrimSpace(in.Message)
	}

	m, created, err := r.members.Register(ctx, in.Phone, name)
	if err != nil {
		return "", err
	}
	if !created {
		return replyAck, nil
	}
	return fmt.Sprintf("🎉 %s, you’ve been registered!", m.Name), nil
}

func (r *Router) handleContribution(ctx context.Context, in *inboundCtx) (string, error) {
	amount, category, ok := contribution.Parse(in.Message)
	if !ok {
		return replyUnparsable, nil
	}
	// Unreachable under the current route order: the prompt route settles
	// unregistered callers before trigger matching. Kept as a guard in case
	// the precedence changes.
	if !in.registered {
		return replyNotRegistered, nil
	}

	recorded, err := r.contributions.Record(ctx, in.member.ID, amount, category)
	if err != nil {
		return "", err
	}
	metrics.ContributionsRecorded.Inc()

	return fmt.Sprintf("✅ Got KES %s for %s. Thanks %s!", recorded.Amount.Truncate(0), recorded.Category, in.member.Name), nil
}

func (r *Router) handleBalance(ctx context.Context, in *inboundCtx) (string, error) {
	// Same unreachable guard as handleContribution.
	if !in.registered {
		return replyNotRegistered, nil
	}

	period := r.contributions.CurrentPeriod()
	totals, err := r.contributions.TotalsByCategory(ctx, in.member.ID, period)
	if err != nil {
		return "", err
	}

	return balance.Report(period, balance.Compute(r.expected, totals)), nil
}

func (r *Router) handleAssistant(ctx context.Context, in *inboundCtx) (string, error) {
	reply, err := r.delegate.Ask(ctx, in.member, in.Message)
	switch {
	case err == nil:
		return reply, nil
	case errors.Is(err, assistant.ErrNoHistory):
		return replyNoRecords, nil
	case errors.Is(err, assistant.ErrTimeout), errors.Is(err, assistant.ErrUnavailable):
		// The chat failed, not the request: degrade to an error reply.
		metrics.AssistantFailures.Inc()
		r.logger.Warn("assistant fault", "phone", in.Phone, "error", err)
		return fmt.Sprintf("⚠️ AI Error: %v", err), nil
	default:
		return "", err
	}
}
