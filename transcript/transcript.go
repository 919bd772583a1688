// Package transcript fetches YouTube video captions as plain text.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
	"github.com/use-agent/solvr/fetch"
)

// DefaultBaseURL is the YouTube origin watch pages are fetched from.
const DefaultBaseURL = "https://www.youtube.com"

// playerResponseMarker marks the start of the player response JSON in the
// watch page HTML.
const playerResponseMarker = "ytInitialPlayerResponse = "

var videoIDRE = regexp.MustCompile(`[?&]v=([^&]+)`)

// VideoID returns the value of the v= query parameter in a watch URL.
func VideoID(rawURL string) (string, bool) {
	m := videoIDRE.FindStringSubmatch(rawURL)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	id, _, _ := strings.Cut(m[1], "#")
	return id, id != ""
}

// Getter performs GET requests. *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

var _ Getter = (*fetch.Client)(nil)

// Transcript is the text of one video's captions.
type Transcript struct {
	VideoID string
	Title   string
	Text    string
}

// Fetcher scrapes the watch page for caption tracks and downloads the best
// one.
type Fetcher struct {
	client  Getter
	baseURL string
	langs   []string
	logger  *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithBaseURL points the fetcher at another origin.
func WithBaseURL(u string) Option {
	return func(f *Fetcher) { f.baseURL = strings.TrimRight(u, "/") }
}

// WithLanguages sets caption language preference, most preferred first.
func WithLanguages(langs ...string) Option {
	return func(f *Fetcher) { f.langs = langs }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a Fetcher using client for all requests.
func NewFetcher(client Getter, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  client,
		baseURL: DefaultBaseURL,
		langs:   []string{"en", "en-US", "en-GB"},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type playerResponse struct {
	VideoDetails *struct {
		Title string `json:"title"`
	} `json:"videoDetails"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

// Fetch downloads the transcript of videoID.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	watchURL := f.baseURL + "/watch?v=" + url.QueryEscape(videoID)
	page, err := f.client.Get(ctx, watchURL)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	player, err := parsePlayerResponse(page)
	if err != nil {
		return nil, err
	}
	title := ""
	if player.VideoDetails != nil {
		title = player.VideoDetails.Title
	}
	if title == "" {
		title = strings.TrimSuffix(fetch.ExtractTitle(string(page)), " - YouTube")
	}

	if player.Captions == nil {
		if player.PlayabilityStatus != nil && player.PlayabilityStatus.Reason != "" {
			return nil, fmt.Errorf("captions unavailable: %s", player.PlayabilityStatus.Reason)
		}
		return nil, errors.New("no captions in player response")
	}
	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, errors.New("no caption tracks")
	}
	track, ok := pickBestTrack(tracks, f.langs)
	if !ok {
		return nil, errors.New("all caption tracks require a PoToken")
	}
	f.logger.Debug("caption track selected",
		"videoID", videoID,
		"lang", track.LanguageCode,
		"kind", track.Kind,
	)

	raw, err := f.client.Get(ctx, track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	text, err := parseTimedText(raw)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, errors.New("empty transcript")
	}
	return &Transcript{VideoID: videoID, Title: title, Text: text}, nil
}

func parsePlayerResponse(page []byte) (*playerResponse, error) {
	s := string(page)
	idx := strings.Index(s, playerResponseMarker)
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	data := extractJSON(page[idx+len(playerResponseMarker):])
	if data == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}
	var pr playerResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &pr, nil
}

// extractJSON returns the balanced JSON object at the start of b.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// needsPoToken reports whether a caption track URL only works in a browser.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack prefers a manual track in a preferred language, then an
// auto-generated one, then any English track.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// parseTimedText joins the caption lines of a timedtext XML document. Both
// the legacy <text> format and srv3 (<p> with <s> segments) are read.
// Line text is HTML-escaped a second time and may carry <font> markup.
func parseTimedText(raw []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return "", fmt.Errorf("empty timedtext XML")
	}

	lines := root.FindElements("//text")
	if len(lines) == 0 {
		lines = root.FindElements("//p")
	}

	var sb strings.Builder
	for _, line := range lines {
		text := cleanCaption(innerText(line))
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

func innerText(e *etree.Element) string {
	var sb strings.Builder
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			sb.WriteString(innerText(t))
		}
	}
	return sb.String()
}

func cleanCaption(s string) string {
	s = html.UnescapeString(s)
	if strings.ContainsRune(s, '<') {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
