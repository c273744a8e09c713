package core

import (
	"context"
	"time"

	"github.com/storagegate/devauth/authority"
	"github.com/storagegate/devauth/cache"
)

// Checker asks the authority about a token. *authority.Client implements it.
type Checker interface {
	Check(ctx context.Context, account, token string) authority.Verdict
}

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Core decides whether storage requests may proceed. It holds no mutable
// state of its own and is safe for concurrent use; consistency of cached
// verdicts is left to the Store.
//
// Concurrent requests for the same account and token may all miss the cache
// and each ask the authority. The check is idempotent, so this is not
// coordinated.
type Core struct {
	checker   Checker
	store     cache.Store
	logger    Logger
	metrics   Metrics
	tracer    Tracer
	now       func() time.Time
	keyPrefix string
}

// Authorize runs the gate for one request.
func (c *Core) Authorize(ctx context.Context, req Request) Outcome {
	out := c.authorize(ctx, req)
	c.metrics.IncCounter(MetricDecisions, map[string]string{"decision": out.Decision.String()})
	return out
}

func (c *Core) authorize(ctx context.Context, req Request) Outcome {
	target, err := SplitPath(req.Path)
	if err != nil || target.Account == "" {
		if c.logger != nil {
			c.logger.Debug("rejecting request without account", "path", req.Path)
		}
		return Outcome{Decision: BadRequest, Err: ErrBadURL}
	}

	if req.Token == "" {
		if c.logger != nil {
			c.logger.Debug("rejecting request without token", "account", target.Account)
		}
		return Outcome{Decision: BadRequest, Err: ErrMissingToken, Target: target}
	}

	cred := Credential{Account: target.Account, Token: req.Token}
	if !c.Validate(ctx, cred.Account, cred.Token) {
		return Outcome{Decision: Unauthorized, Err: ErrUnauthorized, Target: target, Credential: cred}
	}

	return Outcome{Decision: Proceed, Target: target, Credential: cred}
}

// Validate reports whether token is valid for account.
//
// A cached verdict is trusted while now - VerifiedAt <= TTL, regardless of
// whether the store would still return it. Otherwise the authority is asked
// once. Accepted verdicts are cached for their TTL; rejections and failures
// are never cached, and failures always return false.
func (c *Core) Validate(ctx context.Context, account, token string) bool {
	key := CacheKey(c.keyPrefix, account, token)
	now := c.now()

	entry, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.lookup("error")
		if c.logger != nil {
			c.logger.Warn("cache lookup failed, asking authority", "account", account, "error", err)
		}
	case ok && entry.Fresh(now):
		c.lookup("hit")
		if c.logger != nil {
			c.logger.Debug("token verified from cache", "account", account, "expires_at", entry.ExpiresAt())
		}
		return true
	case ok:
		c.lookup("stale")
	default:
		c.lookup("miss")
	}

	verdict := c.check(ctx, account, token)

	switch verdict.Kind {
	case authority.Accepted:
		entry := cache.Entry{VerifiedAt: now, TTL: verdict.TTL}
		if err := c.store.Set(context.WithoutCancel(ctx), key, entry, verdict.TTL); err != nil && c.logger != nil {
			c.logger.Warn("could not cache verdict", "account", account, "error", err)
		}
		return true
	case authority.Rejected:
		if c.logger != nil {
			c.logger.Warn("authority rejected token", "account", account, "status", verdict.Status, "reason", verdict.Reason)
		}
		return false
	default:
		if c.logger != nil {
			c.logger.Error("error with auth", "account", account, "error", verdict.Err)
		}
		return false
	}
}

func (c *Core) check(ctx context.Context, account, token string) authority.Verdict {
	ctx, span := c.tracer.StartSpan(ctx, SpanAuthorityCheck)
	defer span.End()
	span.SetAttribute("devauth.account", account)

	start := time.Now()
	verdict := c.checker.Check(ctx, account, token)
	duration := time.Since(start)

	span.SetAttribute("devauth.verdict", verdict.Kind.String())
	tags := map[string]string{"verdict": verdict.Kind.String()}
	c.metrics.IncCounter(MetricAuthorityChecks, tags)
	c.metrics.ObserveHistogram(MetricAuthorityDuration, duration.Seconds(), tags)

	if c.logger != nil {
		c.logger.Debug("authority answered", "account", account, "verdict", verdict.Kind.String(), "duration", duration)
	}
	return verdict
}

func (c *Core) lookup(result string) {
	c.metrics.IncCounter(MetricCacheLookups, map[string]string{"result": result})
}
