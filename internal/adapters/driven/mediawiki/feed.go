package mediawiki

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/wbedit/internal/core/domain"
	"github.com/custodia-labs/wbedit/internal/core/ports/driven"
	"github.com/custodia-labs/wbedit/internal/logger"
)

// Ensure Feed implements the interface.
var _ driven.ChangeFeed = (*Feed)(nil)

// pubDateLayouts are the date formats seen in feed items.
var pubDateLayouts = []string{time.RFC1123Z, time.RFC1123}

// Feed reads the RSS recent changes feed through a Connection.
type Feed struct {
	conn *Connection
}

// NewFeed creates a feed reader for the connection's site.
func NewFeed(conn *Connection) *Feed {
	return &Feed{conn: conn}
}

type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
	Creator string `xml:"http://purl.org/dc/elements/1.1/ creator"`
}

// Fetch returns the items currently in the feed.
func (f *Feed) Fetch(ctx context.Context) ([]domain.RecentChange, error) {
	params := map[string]string{
		paramAction:  "feedrecentchanges",
		"feedformat": "rss",
	}

	body, err := f.conn.SendRequest(ctx, http.MethodGet, params)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	return parseFeed(body)
}

func parseFeed(r io.Reader) ([]domain.RecentChange, error) {
	var doc rssDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	changes := make([]domain.RecentChange, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		changes = append(changes, domain.RecentChange{
			Title:  strings.TrimSpace(item.Title),
			Author: strings.TrimSpace(item.Creator),
			Date:   parsePubDate(item.PubDate),
			Link:   strings.TrimSpace(item.Link),
		})
	}
	return changes, nil
}

func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	logger.Warn("Could not parse date from string %q", s)
	return time.Time{}
}
