package httpx

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"golang.org/x/time/rate"
)

func testPager() *Pager {
	return NewPager("test", rate.NewLimiter(rate.Inf, 1))
}

func TestFetchAllPages(t *testing.T) {
	pageSizes := map[int]int{1: 3, 2: 3, 3: 2}
	var got []int

	res := testPager().FetchAllPages(context.Background(), func(ctx context.Context, page int) (int, bool, error) {
		n := pageSizes[page]
		for i := 0; i < n; i++ {
			got = append(got, page*100+i)
		}
		return n, page == 3, nil
	})

	if !res.Complete {
		t.Fatalf("expected complete run: %+v", res)
	}
	if res.Pages != 3 || res.Records != 8 {
		t.Fatalf("unexpected totals: %+v", res)
	}
	// Order must follow page order with no duplicates.
	want := []int{100, 101, 102, 200, 201, 202, 300, 301}
	if len(got) != len(want) {
		t.Fatalf("accumulated %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFetchAllPagesEmptyFirstPage(t *testing.T) {
	res := testPager().FetchAllPages(context.Background(), func(ctx context.Context, page int) (int, bool, error) {
		return 0, false, nil
	})
	if !res.Complete || res.Pages != 0 || res.Records != 0 {
		t.Fatalf("expected empty complete result: %+v", res)
	}
}

func TestFetchAllPagesPartialOnError(t *testing.T) {
	boom := errors.New("boom")
	res := testPager().FetchAllPages(context.Background(), func(ctx context.Context, page int) (int, bool, error) {
		if page == 3 {
			return 0, false, boom
		}
		return 5, false, nil
	})
	if res.Complete {
		t.Fatal("expected partial result")
	}
	if !errors.Is(res.Err, boom) {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	// Records from the two good pages survive the failure.
	if res.Pages != 2 || res.Records != 10 {
		t.Fatalf("unexpected partial totals: %+v", res)
	}
}

func TestFetchAllLinks(t *testing.T) {
	next := map[string]string{
		"https://shop/p1": "https://shop/p2",
		"https://shop/p2": "https://shop/p3",
		"https://shop/p3": "",
	}
	var visited []string

	res := testPager().FetchAllLinks(context.Background(), "https://shop/p1", func(ctx context.Context, pageURL string) (int, string, error) {
		visited = append(visited, pageURL)
		return 2, next[pageURL], nil
	})

	if !res.Complete || res.Pages != 3 || res.Records != 6 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(visited) != 3 || visited[2] != "https://shop/p3" {
		t.Fatalf("unexpected walk: %v", visited)
	}
}

func TestFetchAllLinksPartialOnError(t *testing.T) {
	res := testPager().FetchAllLinks(context.Background(), "https://shop/p1", func(ctx context.Context, pageURL string) (int, string, error) {
		if pageURL == "https://shop/p2" {
			return 0, "", fmt.Errorf("server gone")
		}
		return 4, "https://shop/p2", nil
	})
	if res.Complete {
		t.Fatal("expected partial result")
	}
	if res.Pages != 1 || res.Records != 4 {
		t.Fatalf("unexpected partial totals: %+v", res)
	}
}

func TestNextLink(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{`<https://shop.myshopify.com/admin/api/2025-10/orders.json?page_info=abc>; rel="next"`, "https://shop.myshopify.com/admin/api/2025-10/orders.json?page_info=abc"},
		{`<https://x/prev>; rel="previous", <https://x/next>; rel="next"`, "https://x/next"},
		{`<https://x/prev>; rel="previous"`, ""},
		{``, ""},
	}
	for _, tc := range cases {
		if got := NextLink(tc.header); got != tc.want {
			t.Errorf("NextLink(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
