package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bachecalabs/bacheca/internal/markdown"
)

// LegalPage is a markdown-backed static page (terms, privacy, rules).
type LegalPage struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Content     string `json:"content"`
	LastUpdated string `json:"lastUpdated"`
}

// Announcement is a dated platform notice rendered from markdown.
type Announcement struct {
	Title   string    `json:"title"`
	Slug    string    `json:"slug"`
	Date    time.Time `json:"date"`
	Content string    `json:"content"`
}

// ContentService serves legal pages and announcements from a content
// directory on disk. Files are re-read on each request so edits show up
// without a restart.
type ContentService struct {
	parser     *markdown.Parser
	contentDir string
}

func NewContentService(contentDir string) *ContentService {
	return &ContentService{
		parser:     markdown.NewParser(),
		contentDir: contentDir,
	}
}

func (s *ContentService) LegalPage(slug string) (*LegalPage, error) {
	filePath := filepath.Join(s.contentDir, "legal", slug+".md")
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %s: %w", slug, err)
	}

	html, meta, err := s.parser.ParseWithFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	title, _ := meta["title"].(string)
	if title == "" {
		title = cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	}

	lastUpdated := parseContentDate(meta["lastUpdated"])
	if lastUpdated == "" {
		info, err := os.Stat(filePath)
		if err == nil {
			lastUpdated = info.ModTime().Format("January 2, 2006")
		}
	}

	return &LegalPage{
		Title:       title,
		Slug:        slug,
		Content:     string(html),
		LastUpdated: lastUpdated,
	}, nil
}

// Announcements returns every published announcement, newest first.
func (s *ContentService) Announcements() ([]*Announcement, error) {
	pattern := filepath.Join(s.contentDir, "announcements", "*.md")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	var items []*Announcement
	for _, file := range files {
		slug := strings.TrimSuffix(filepath.Base(file), ".md")
		item, err := s.announcement(file, slug)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})

	return items, nil
}

func (s *ContentService) announcement(filePath, slug string) (*Announcement, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	html, meta, err := s.parser.ParseWithFrontmatter(content)
	if err != nil {
		return nil, err
	}

	if published, ok := meta["published"].(bool); ok && !published {
		return nil, fmt.Errorf("announcement %s not published", slug)
	}

	title, _ := meta["title"].(string)
	if title == "" {
		title = cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	}

	date := time.Now()
	switch v := meta["date"].(type) {
	case time.Time:
		date = v
	case string:
		parsed, err := time.Parse("2006-01-02", v)
		if err == nil {
			date = parsed
		}
	}

	return &Announcement{
		Title:   title,
		Slug:    slug,
		Date:    date,
		Content: string(html),
	}, nil
}

func parseContentDate(value any) string {
	var dateStr string

	switch v := value.(type) {
	case string:
		dateStr = v
	case time.Time:
		return v.Format("January 2, 2006")
	default:
		return ""
	}

	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"02.01.2006",
		"Jan 2, 2006",
		"January 2, 2006",
		time.RFC3339,
	}

	for _, format := range formats {
		t, err := time.Parse(format, dateStr)
		if err == nil {
			return t.Format("January 2, 2006")
		}
	}

	return dateStr
}
