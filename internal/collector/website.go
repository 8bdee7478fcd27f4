package collector

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/oraclo-news/oraclo/internal/types"
)

// WebsiteCollector scrapes article headlines from news listing pages.
// Sources may configure CSS or XPath selectors; without selectors it
// falls back to heuristic anchor extraction.
type WebsiteCollector struct {
	fetcher *Fetcher
	browser *BrowserFetcher
	logger  *slog.Logger
}

// NewWebsiteCollector builds a website collector.
func NewWebsiteCollector(deps *Deps) *WebsiteCollector {
	return &WebsiteCollector{
		fetcher: deps.Fetcher,
		browser: deps.Browser,
		logger:  deps.Logger.With("component", "website_collector"),
	}
}

// Collect fetches the source page and extracts article candidates.
func (c *WebsiteCollector) Collect(ctx context.Context, src *types.Source) ([]*types.Article, error) {
	var body []byte
	var err error
	if src.RenderJS && c.browser != nil {
		body, err = c.browser.Fetch(ctx, src.URL)
	} else {
		body, err = c.fetcher.FetchWithRetry(ctx, src.URL, nil)
	}
	if err != nil {
		return nil, &types.CollectError{SourceName: src.Name, SourceType: src.Type, Err: err}
	}

	var articles []*types.Article
	switch {
	case src.Scrape.ArticleSelector != "" && src.Scrape.SelectorType == types.SelectorXPath:
		articles, err = c.extractXPath(body, src)
	case src.Scrape.ArticleSelector != "":
		articles, err = c.extractCSS(body, src)
	default:
		articles, err = c.extractHeuristic(body, src)
	}
	if err != nil {
		return nil, &types.CollectError{SourceName: src.Name, SourceType: src.Type, Err: err}
	}

	if max := src.MaxArticles; max > 0 && len(articles) > max {
		articles = articles[:max]
	}
	c.logger.Debug("page scraped", "source", src.Name, "articles", len(articles))
	return articles, nil
}

// extractCSS walks configured CSS article blocks.
func (c *WebsiteCollector) extractCSS(body []byte, src *types.Source) ([]*types.Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	seen := NewDeduplicator(64)
	var articles []*types.Article
	doc.Find(src.Scrape.ArticleSelector).Each(func(_ int, sel *goquery.Selection) {
		title, href := c.titleAndLink(sel, src)
		if title == "" || href == "" {
			return
		}
		link := absoluteURL(src.URL, href)
		if seen.IsSeen(link) {
			return
		}
		seen.MarkSeen(link)

		var content string
		if s := src.Scrape.ContentSelector; s != "" {
			content = cleanText(sel.Find(s).Text())
		}

		a := types.NewArticle(title, content, link, src.ID)
		if s := src.Scrape.AuthorSelector; s != "" {
			a.Author = cleanText(sel.Find(s).Text())
		}
		if s := src.Scrape.DateSelector; s != "" {
			raw := sel.Find(s).AttrOr("datetime", "")
			if raw == "" {
				raw = sel.Find(s).Text()
			}
			a.PublishedAt = parseDate(raw, src.Scrape.DateFormat)
		}
		articles = append(articles, a)
	})
	return articles, nil
}

// titleAndLink pulls a headline and href from an article block, using
// the title selector when set and the first anchor otherwise.
func (c *WebsiteCollector) titleAndLink(sel *goquery.Selection, src *types.Source) (string, string) {
	if s := src.Scrape.TitleSelector; s != "" {
		el := sel.Find(s).First()
		title := cleanText(el.Text())
		href := el.AttrOr("href", "")
		if href == "" {
			href = el.Find("a").First().AttrOr("href", "")
		}
		if href == "" {
			href = sel.Find("a").First().AttrOr("href", "")
		}
		return title, href
	}
	link := sel.Find("a").First()
	return cleanText(link.Text()), link.AttrOr("href", "")
}

// extractXPath walks configured XPath article nodes.
func (c *WebsiteCollector) extractXPath(body []byte, src *types.Source) ([]*types.Article, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	nodes, err := htmlquery.QueryAll(doc, src.Scrape.ArticleSelector)
	if err != nil {
		return nil, err
	}

	seen := NewDeduplicator(64)
	var articles []*types.Article
	for _, node := range nodes {
		title, href := xpathTitleAndLink(node, src)
		if title == "" || href == "" {
			continue
		}
		link := absoluteURL(src.URL, href)
		if seen.IsSeen(link) {
			continue
		}
		seen.MarkSeen(link)

		var content string
		if s := src.Scrape.ContentSelector; s != "" {
			if n, err := htmlquery.Query(node, s); err == nil && n != nil {
				content = cleanText(htmlquery.InnerText(n))
			}
		}
		articles = append(articles, types.NewArticle(title, content, link, src.ID))
	}
	return articles, nil
}

func xpathTitleAndLink(node *html.Node, src *types.Source) (string, string) {
	link := node
	if link.Data != "a" {
		if n, err := htmlquery.Query(node, "//a"); err == nil && n != nil {
			link = n
		}
	}
	href := htmlquery.SelectAttr(link, "href")

	title := ""
	if s := src.Scrape.TitleSelector; s != "" {
		if n, err := htmlquery.Query(node, s); err == nil && n != nil {
			title = cleanText(htmlquery.InnerText(n))
		}
	}
	if title == "" {
		title = cleanText(htmlquery.InnerText(link))
	}
	return title, href
}

// extractHeuristic scans every anchor on the page and keeps those that
// look like headline links.
func (c *WebsiteCollector) extractHeuristic(body []byte, src *types.Source) ([]*types.Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	seen := NewDeduplicator(128)
	var articles []*types.Article
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		title := cleanText(sel.Text())
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}
		link := absoluteURL(src.URL, href)
		if !looksLikeArticleLink(link, title) {
			return
		}
		if seen.IsSeen(link) {
			return
		}
		seen.MarkSeen(link)
		articles = append(articles, types.NewArticle(title, "", link, src.ID))
	})
	return articles, nil
}
