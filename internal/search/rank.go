package search

import (
	"context"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

var productPathRE = regexp.MustCompile(`/products/(\d+)`)

// Result describes a finished lookup. Rank is 1-based and only meaningful
// when Found is true.
type Result struct {
	Rank     int
	Found    bool
	Pages    int
	Attempts int
}

// FindRank walks the result pages of keyword and returns the position of
// targetID. A lookup that completes without a match returns Found == false
// and a nil error. A non-nil error means the upstream failed (non-retryable
// status or retries exhausted); Result still reports the work done so far.
func (c *Client) FindRank(ctx context.Context, creds Credentials, keyword, targetID string) (Result, error) {
	tr := otel.Tracer("search/Client")
	ctx, span := tr.Start(ctx, "FindRank",
		trace.WithAttributes(
			attribute.String("keyword", keyword),
			attribute.String("target_id", targetID),
		),
	)
	defer span.End()

	var out Result
	if creds.ClientID == "" || creds.ClientSecret == "" {
		span.SetStatus(codes.Error, ErrNoCredentials.Error())
		return out, ErrNoCredentials
	}
	targetID = strings.TrimSpace(targetID)

	limiter := rate.NewLimiter(rate.Inf, 1)
	if c.pageDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(c.pageDelay), 1)
	}

	pageLimit := MaxPages
	for p := 0; p < pageLimit; p++ {
		if err := limiter.Wait(ctx); err != nil {
			span.RecordError(err)
			return out, err
		}

		start := p*PageSize + 1
		res := c.fetchPage(ctx, creds, keyword, start)
		out.Attempts += res.attempts
		if !res.ok {
			span.RecordError(res.err)
			span.SetStatus(codes.Error, "page fetch failed")
			span.SetAttributes(attribute.Int("pages", out.Pages))
			return out, res.err
		}
		out.Pages++

		if i := matchIndex(res.page.Items, targetID); i >= 0 {
			out.Rank = start + i
			out.Found = true
			break
		}
		if p == 0 {
			pageLimit = pageLimitFor(reportedTotal(res.page))
		}
		if len(res.page.Items) < PageSize {
			break
		}
	}

	span.SetAttributes(
		attribute.Int("pages", out.Pages),
		attribute.Int("attempts", out.Attempts),
		attribute.Bool("found", out.Found),
		attribute.Int("rank", out.Rank),
	)
	return out, nil
}

// reportedTotal is the page's total hit count, or MaxRank when the source
// did not report one.
func reportedTotal(p *Page) int {
	if p.Total == nil {
		return MaxRank
	}
	return *p.Total
}

// pageLimitFor returns how many pages a source reporting total hits is
// worth walking.
func pageLimitFor(total int) int {
	if total > MaxRank {
		total = MaxRank
	}
	n := (total + PageSize - 1) / PageSize
	if n < 1 {
		n = 1
	}
	if n > MaxPages {
		n = MaxPages
	}
	return n
}

// matchIndex returns the index of the first item identifying targetID, or -1.
func matchIndex(items []Item, targetID string) int {
	if targetID == "" {
		return -1
	}
	for i := range items {
		if itemID(items[i], targetID) {
			return i
		}
	}
	return -1
}

// itemID checks the primary id, then the mall-scoped id, then the id in the
// product URL.
func itemID(it Item, targetID string) bool {
	if string(it.ProductID) == targetID {
		return true
	}
	if string(it.MallProductID) == targetID {
		return true
	}
	return linkID(it.Link) == targetID
}

// linkID extracts the numeric id from a ".../products/<id>" URL.
func linkID(link string) string {
	m := productPathRE.FindStringSubmatch(link)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
