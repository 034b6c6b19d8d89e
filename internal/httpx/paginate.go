package httpx

import (
	"context"
	"strings"

	"golang.org/x/time/rate"

	"salesflow/logger"
)

// Result describes how a pagination run ended. Complete=false marks a
// partial fetch: the caller still has every record accumulated before the
// failure and must warn that downstream output is incomplete.
type Result struct {
	Pages    int
	Records  int
	Complete bool
	Err      error
}

// PageFunc fetches one page for the offset strategy. It receives a 1-based
// page number, appends whatever it decoded into the caller's accumulator,
// and reports how many records the page held and whether the server said
// this was the last one (total/page-count metadata).
type PageFunc func(ctx context.Context, page int) (records int, done bool, err error)

// LinkPageFunc fetches one page for the cursor-link strategy. It is handed
// an absolute URL (the first request's URL, then each rel="next" target
// verbatim) and returns the next URL, empty when pagination is terminal.
type LinkPageFunc func(ctx context.Context, pageURL string) (records int, nextURL string, err error)

// Pager walks a paginated listing to exhaustion. A shared rate limiter
// enforces the inter-page courtesy delay: a proactive throttle that is
// independent of the engine's reactive 429 handling.
type Pager struct {
	platform string
	limiter  *rate.Limiter
	log      *logger.Log
}

func NewPager(platform string, limiter *rate.Limiter) *Pager {
	return &Pager{
		platform: platform,
		limiter:  limiter,
		log:      logger.GetLogger(),
	}
}

// FetchAllPages drives fn with successive page numbers until a page comes
// back empty, fn reports done, or an error aborts the walk. Errors keep
// the partial accumulation and are reported through Result, not returned:
// per-request retries already happened inside the engine.
func (p *Pager) FetchAllPages(ctx context.Context, fn PageFunc) Result {
	log := p.log.WithComponent(p.platform + "_pager")
	res := Result{Complete: true}

	for page := 1; ; page++ {
		if err := p.wait(ctx, page); err != nil {
			res.Complete = false
			res.Err = err
			return res
		}

		n, done, err := fn(ctx, page)
		if err != nil {
			log.WithError(err).WithFields(logger.Fields{"page": page, "records_so_far": res.Records}).Warn("pagination aborted, returning partial results")
			res.Complete = false
			res.Err = err
			return res
		}
		if n == 0 {
			return res
		}

		res.Pages++
		res.Records += n
		logger.IncrementPage(p.platform, n)
		log.WithFields(logger.Fields{"page": page, "records": n, "total": res.Records}).Debug("page fetched")

		if done {
			return res
		}
	}
}

// FetchAllLinks drives fn from firstURL through each rel="next" target.
// The next URL fully replaces path and query of the following request.
func (p *Pager) FetchAllLinks(ctx context.Context, firstURL string, fn LinkPageFunc) Result {
	log := p.log.WithComponent(p.platform + "_pager")
	res := Result{Complete: true}

	pageURL := firstURL
	for page := 1; pageURL != ""; page++ {
		if err := p.wait(ctx, page); err != nil {
			res.Complete = false
			res.Err = err
			return res
		}

		n, next, err := fn(ctx, pageURL)
		if err != nil {
			log.WithError(err).WithFields(logger.Fields{"page": page, "records_so_far": res.Records}).Warn("pagination aborted, returning partial results")
			res.Complete = false
			res.Err = err
			return res
		}
		if n == 0 {
			return res
		}

		res.Pages++
		res.Records += n
		logger.IncrementPage(p.platform, n)
		log.WithFields(logger.Fields{"page": page, "records": n, "total": res.Records}).Debug("page fetched")

		pageURL = next
	}
	return res
}

func (p *Pager) wait(ctx context.Context, page int) error {
	if page == 1 || p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

// NextLink parses the rel="next" target out of a Link response header
// value, e.g. `<https://x/page2>; rel="next", <https://x/page1>;
// rel="previous"`. Returns "" when no next relation is present, which is
// the terminal condition for cursor-link pagination.
func NextLink(linkHeader string) string {
	if !strings.Contains(linkHeader, `rel="next"`) {
		return ""
	}
	for _, part := range strings.Split(linkHeader, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		urlPart := strings.SplitN(part, ";", 2)[0]
		return strings.Trim(strings.TrimSpace(urlPart), "<> ")
	}
	return ""
}
