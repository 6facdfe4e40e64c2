package engine

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// Article is extracted main content of a web page research source.
type Article struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// FetchArticle extracts title and main text content from a URL.
// Content selection via goquery, markdown conversion via html-to-markdown;
// falls back to raw tag stripping when conversion fails.
func FetchArticle(ctx context.Context, rawURL string) (*Article, error) {
	IncrArticleRequests()

	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	resp, err := RetryHTTP(ctx, DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", RandomUserAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return cfg.HTTPClient.Do(req)
	})
	if err != nil {
		IncrArticleErrors()
		return nil, fmt.Errorf("fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		IncrArticleErrors()
		return nil, fmt.Errorf("fetch article: status %d", resp.StatusCode)
	}

	body, err := ReadResponseBody(resp, cfg.MaxPageBytes)
	if err != nil {
		IncrArticleErrors()
		return nil, fmt.Errorf("read article: %w", err)
	}

	title, content, err := extractArticle(string(body))
	if err != nil {
		IncrArticleErrors()
		return nil, err
	}
	if cfg.MaxContentChars > 0 && len(content) > cfg.MaxContentChars {
		content = content[:cfg.MaxContentChars] + "..."
	}
	return &Article{URL: rawURL, Title: title, Content: content}, nil
}

// extractArticle pulls title and main content out of page HTML.
func extractArticle(html string) (title, content string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", fmt.Errorf("parse article html: %w", err)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
			title = strings.TrimSpace(og)
		}
	}

	removeSelectors := []string{
		"script", "style", "noscript", "iframe", "svg",
		"header", "footer", "nav", "aside",
		".advertisement", ".ad", ".sidebar", ".comments",
		"[role=navigation]", "[role=banner]", "[role=contentinfo]",
	}
	doc.Find(strings.Join(removeSelectors, ", ")).Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	contentSel := doc.Find("article, main, .content, .post-content, .article-content, #content").First()
	if contentSel.Length() == 0 {
		contentSel = doc.Find("body")
	}

	inner, err := contentSel.Html()
	if err != nil || strings.TrimSpace(inner) == "" {
		content = CollapseSpace(contentSel.Text())
	} else if md, mdErr := htmltomarkdown.ConvertString(inner); mdErr == nil {
		content = strings.TrimSpace(md)
	} else {
		content = CollapseSpace(contentSel.Text())
	}

	if content == "" {
		return title, "", fmt.Errorf("no extractable content")
	}
	return title, content, nil
}
