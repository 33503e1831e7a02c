// Package audio finds downloadable native-speaker pronunciations for a
// word by scraping Forvo's word and search pages.
package audio

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/kumoshiro/pitchcard/internal/dom"
	"github.com/kumoshiro/pitchcard/internal/fetch"
	"golang.org/x/net/html"
)

// File is one downloadable pronunciation.
type File struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Word     string `json:"word"`
	Source   string `json:"source"`
}

// Config controls language selection and result ordering. Preferred
// usernames outrank preferred countries when both match.
type Config struct {
	Language           string
	PreferredUsernames []string
	PreferredCountries []string
	ShowGender         bool
	ShowCountry        bool

	// Host overrides exist for tests.
	Host      string
	AudioHost string
}

const (
	defaultHost      = "https://forvo.com"
	defaultAudioHost = "https://audio12.forvo.com"

	sourceWord   = "Forvo Word"
	sourceSearch = "Forvo Search"
)

// ForvoClient scrapes Forvo pages for audio sources.
type ForvoClient struct {
	http *fetch.Client
	cfg  Config
}

func NewForvoClient(httpClient *fetch.Client, cfg Config) *ForvoClient {
	if cfg.Language == "" {
		cfg.Language = "ja"
	}
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if cfg.AudioHost == "" {
		cfg.AudioHost = defaultAudioHost
	}
	for i, c := range cfg.PreferredCountries {
		cfg.PreferredCountries[i] = strings.ToLower(c)
	}
	return &ForvoClient{http: httpClient, cfg: cfg}
}

// pronunciation is one entry scraped from the word page, before it is
// shaped into a File.
type pronunciation struct {
	word     string
	username string
	audioURL string
	gender   string
	country  string
}

// filename joins the identifying parts so a deck can store several speakers
// for one word without collisions.
func (p pronunciation) filename() string {
	parts := []string{p.word, "forvo", p.username}
	if p.gender != "" {
		parts = append(parts, p.gender)
	}
	if p.country != "" {
		parts = append(parts, p.country)
	}
	return strings.Join(parts, "_") + "." + fileType(p.audioURL)
}

// The speaker line reads like "Pronunciation by strawberrybrown (Female
// from Japan)"; accounts can be deleted, so the username comes from the
// text rather than the profile link.
var (
	reUsername = regexp.MustCompile(`Pronunciation by\s*([^()]+)`)
	reGender   = regexp.MustCompile(`\((Male|Female)`)
	reCountry  = regexp.MustCompile(`\((?:Male|Female) from ([^()]+)`)
	rePlayArgs = regexp.MustCompile(`[^',()]+`)
)

var genderSigns = map[string]string{
	"Male":   "♂",
	"Female": "♀",
}

// Word scrapes the word page. The result keeps speaker metadata and is
// reordered by the configured username and country preferences.
func (c *ForvoClient) Word(ctx context.Context, word string) ([]File, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, nil
	}
	doc, err := c.fetchPage(ctx, c.cfg.Host+"/word/"+url.PathEscape(word)+"/")
	if err != nil {
		return nil, fmt.Errorf("forvo word %q: %w", word, err)
	}

	var pronunciations []pronunciation
	for _, item := range c.wordPageItems(doc) {
		audioURL, err := c.extractURL(item)
		if err != nil {
			continue
		}
		p := pronunciation{
			word:     word,
			username: c.findUsername(item),
			audioURL: audioURL,
		}
		text := dom.TextContent(item)
		if c.cfg.ShowGender {
			if m := reGender.FindStringSubmatch(text); m != nil {
				p.gender = genderSigns[m[1]]
			}
		}
		if c.cfg.ShowCountry || len(c.cfg.PreferredCountries) > 0 {
			if m := reCountry.FindStringSubmatch(text); m != nil {
				p.country = strings.TrimSpace(m[1])
			}
		}
		pronunciations = append(pronunciations, p)
	}

	if len(c.cfg.PreferredUsernames) > 0 || len(c.cfg.PreferredCountries) > 0 {
		c.sortPronunciations(pronunciations)
	}

	files := make([]File, 0, len(pronunciations))
	for _, p := range pronunciations {
		files = append(files, File{
			URL:      p.audioURL,
			Filename: p.filename(),
			Word:     word,
			Source:   sourceWord,
		})
	}
	return files, nil
}

// Search scrapes the search page, which lists playable results without
// speaker names.
func (c *ForvoClient) Search(ctx context.Context, word string) ([]File, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, nil
	}
	doc, err := c.fetchPage(ctx, c.cfg.Host+"/search/"+url.PathEscape(word)+"/"+c.cfg.Language+"/")
	if err != nil {
		return nil, fmt.Errorf("forvo search %q: %w", word, err)
	}

	var files []File
	for _, item := range c.searchPageItems(doc) {
		audioURL, err := c.extractURL(item)
		if err != nil {
			continue
		}
		files = append(files, File{
			URL:      audioURL,
			Filename: fmt.Sprintf("%s_forvo_%s.%s", word, c.cfg.Language, fileType(audioURL)),
			Word:     word,
			Source:   sourceSearch,
		})
	}
	return files, nil
}

func (c *ForvoClient) fetchPage(ctx context.Context, pageURL string) (*html.Node, error) {
	body, err := c.http.Download(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}

// wordPageItems selects the per-language pronunciation list entries,
// skipping ad items: #language-container-<lang> > article >
// ul.pronunciations-list > li:not(.li-ad).
func (c *ForvoClient) wordPageItems(doc *html.Node) []*html.Node {
	container := findByID(doc, "language-container-"+c.cfg.Language)
	if container == nil {
		return nil
	}
	var items []*html.Node
	for article := container.FirstChild; article != nil; article = article.NextSibling {
		if !dom.IsElement(article, "article") {
			continue
		}
		for ul := article.FirstChild; ul != nil; ul = ul.NextSibling {
			if !dom.IsElement(ul, "ul") || !dom.HasClass(ul, "pronunciations-list") {
				continue
			}
			for li := ul.FirstChild; li != nil; li = li.NextSibling {
				if dom.IsElement(li, "li") && !dom.HasClass(li, "li-ad") {
					items = append(items, li)
				}
			}
		}
	}
	return items
}

// searchPageItems selects the playable results:
// ul.word-play-list-icon-size-l li .play.
func (c *ForvoClient) searchPageItems(doc *html.Node) []*html.Node {
	var items []*html.Node
	dom.Walk(doc, func(n *html.Node) bool {
		if dom.IsElement(n, "ul") && dom.HasClass(n, "word-play-list-icon-size-l") {
			dom.Walk(n, func(m *html.Node) bool {
				if m.Type == html.ElementNode && dom.HasClass(m, "play") {
					items = append(items, m)
					return false
				}
				return true
			})
			return false
		}
		return true
	})
	return items
}

func (c *ForvoClient) findUsername(item *html.Node) string {
	if m := reUsername.FindStringSubmatch(dom.TextContent(item)); m != nil {
		return strings.TrimSpace(m[1])
	}
	return "Unknown"
}

// extractURL recovers the audio file path from the page's Play() handler.
// The call carries base64-encoded paths: the normalized file sits in the
// 6th argument, the raw upload in the 3rd; not every pronunciation has a
// normalized version, so the raw path is the fallback.
func (c *ForvoClient) extractURL(item *html.Node) (string, error) {
	onclick := findOnclick(item)
	if onclick == "" {
		return "", fmt.Errorf("no play handler")
	}
	args := rePlayArgs.FindAllString(onclick, -1)
	if len(args) < 2 {
		return "", fmt.Errorf("malformed play handler %q", onclick)
	}
	args = args[1:]

	const normalizedArg, rawArg = 5, 2
	if file, err := decodePlayArg(args, normalizedArg); err == nil {
		return c.cfg.AudioHost + "/audios/" + fileType(file) + "/" + file, nil
	}
	file, err := decodePlayArg(args, rawArg)
	if err != nil {
		return "", fmt.Errorf("no playable argument in %q", onclick)
	}
	return c.cfg.AudioHost + "/" + fileType(file) + "/" + file, nil
}

func findOnclick(item *html.Node) string {
	var onclick string
	dom.Walk(item, func(n *html.Node) bool {
		if onclick != "" {
			return false
		}
		if n.Type == html.ElementNode {
			if v, ok := dom.Attr(n, "onclick"); ok {
				onclick = v
				return false
			}
		}
		return true
	})
	return onclick
}

// decodePlayArg converts a Play() argument to a relative file path, e.g.
// "OTQ3ODA1OS83Ni85NDc4MDU5Xzc2XzEzMjg3Lm1wMw==" to
// "9478059/76/9478059_76_13287.mp3".
func decodePlayArg(args []string, idx int) (string, error) {
	if idx >= len(args) {
		return "", fmt.Errorf("missing play argument %d", idx)
	}
	raw, err := base64.StdEncoding.DecodeString(args[idx])
	if err != nil {
		return "", fmt.Errorf("decode play argument %d: %w", idx, err)
	}
	return string(raw), nil
}

// fileType returns the extension of a file path or URL.
func fileType(file string) string {
	if i := strings.LastIndex(file, "."); i >= 0 {
		return file[i+1:]
	}
	return file
}

// sortPronunciations orders by preferred username first, then preferred
// country; unmatched entries keep their page order at the end.
func (c *ForvoClient) sortPronunciations(ps []pronunciation) {
	rank := func(list []string, value string) int {
		for i, v := range list {
			if v == value {
				return i
			}
		}
		return len(list)
	}
	sort.SliceStable(ps, func(i, j int) bool {
		ui := rank(c.cfg.PreferredUsernames, ps[i].username)
		uj := rank(c.cfg.PreferredUsernames, ps[j].username)
		if ui != uj {
			return ui < uj
		}
		ci := rank(c.cfg.PreferredCountries, strings.ToLower(ps[i].country))
		cj := rank(c.cfg.PreferredCountries, strings.ToLower(ps[j].country))
		return ci < cj
	})
}

func findByID(n *html.Node, id string) *html.Node {
	var found *html.Node
	dom.Walk(n, func(m *html.Node) bool {
		if found != nil {
			return false
		}
		if m.Type == html.ElementNode {
			if v, _ := dom.Attr(m, "id"); v == id {
				found = m
				return false
			}
		}
		return true
	})
	return found
}
