// Package plex is a client for the Plex Media Server HTTP API, covering the
// surface this tool needs: server identity, library sections, item listing,
// and poster retrieval.
package plex

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Client talks to a single Plex Media Server address.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			log = log.With("component", "plex")
		}
		c.log = log
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the address the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// getXML performs an authenticated GET and decodes the MediaContainer response.
func (c *Client) getXML(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Identity holds Plex server identity information.
type Identity struct {
	Name    string
	Version string
}

// identityResponse is the XML response from the server root endpoint.
type identityResponse struct {
	XMLName      xml.Name `xml:"MediaContainer"`
	FriendlyName string   `xml:"friendlyName,attr"`
	Version      string   `xml:"version,attr"`
}

// Identity returns the Plex server name and version.
func (c *Client) Identity(ctx context.Context) (*Identity, error) {
	var result identityResponse
	if err := c.getXML(ctx, "/", &result); err != nil {
		return nil, err
	}
	return &Identity{
		Name:    result.FriendlyName,
		Version: result.Version,
	}, nil
}

// Section represents a Plex library section.
type Section struct {
	Key   string `xml:"key,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"` // movie, show, artist, photo
}

// sectionsResponse is the XML response from /library/sections.
type sectionsResponse struct {
	XMLName  xml.Name  `xml:"MediaContainer"`
	Sections []Section `xml:"Directory"`
}

// Sections returns all library sections.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	var result sectionsResponse
	if err := c.getXML(ctx, "/library/sections", &result); err != nil {
		return nil, err
	}
	return result.Sections, nil
}

// Section finds a library section by name (case-insensitive).
func (c *Client) Section(ctx context.Context, name string) (*Section, error) {
	sections, err := c.Sections(ctx)
	if err != nil {
		return nil, err
	}
	for _, sec := range sections {
		if strings.EqualFold(sec.Title, name) {
			return &sec, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, name)
}

// countResponse is the XML response for a zero-sized container request.
type countResponse struct {
	XMLName xml.Name `xml:"MediaContainer"`
	Size    int      `xml:"totalSize,attr"`
}

// SectionCount returns the number of items in a library section without
// fetching the items themselves.
func (c *Client) SectionCount(ctx context.Context, sectionKey string) (int, error) {
	// X-Plex-Container-Size=0 returns the count with an empty container.
	path := fmt.Sprintf("/library/sections/%s/all?X-Plex-Container-Size=0", sectionKey)
	var result countResponse
	if err := c.getXML(ctx, path, &result); err != nil {
		return 0, err
	}
	return result.Size, nil
}

// Item represents a media node: a movie, a show, an artist, or an album.
type Item struct {
	RatingKey string
	Title     string
	Year      int
	Type      string
	Thumb     string   // poster path, empty when the item has no art
	GUID      string   // the item's own guid, e.g. plex://movie/...
	Guids     []string // external ids, e.g. tmdb://550
}

// itemXML is the wire form shared by Video and Directory elements.
type itemXML struct {
	RatingKey string `xml:"ratingKey,attr"`
	Title     string `xml:"title,attr"`
	Year      int    `xml:"year,attr"`
	Type      string `xml:"type,attr"`
	Thumb     string `xml:"thumb,attr"`
	GUID      string `xml:"guid,attr"`
	Guids     []struct {
		ID string `xml:"id,attr"`
	} `xml:"Guid"`
}

func (x itemXML) item() Item {
	it := Item{
		RatingKey: x.RatingKey,
		Title:     x.Title,
		Year:      x.Year,
		Type:      x.Type,
		Thumb:     x.Thumb,
		GUID:      x.GUID,
	}
	for _, g := range x.Guids {
		it.Guids = append(it.Guids, g.ID)
	}
	return it
}

// itemsResponse is the XML response from item listing endpoints. Movies come
// back as Video elements; shows, artists, and albums as Directory elements.
type itemsResponse struct {
	XMLName     xml.Name  `xml:"MediaContainer"`
	Videos      []itemXML `xml:"Video"`
	Directories []itemXML `xml:"Directory"`
}

func (r itemsResponse) items() []Item {
	items := make([]Item, 0, len(r.Videos)+len(r.Directories))
	for _, x := range r.Videos {
		items = append(items, x.item())
	}
	for _, x := range r.Directories {
		items = append(items, x.item())
	}
	return items
}

// SectionItems returns every item in a library section, with external ids
// included.
func (c *Client) SectionItems(ctx context.Context, sectionKey string) ([]Item, error) {
	path := fmt.Sprintf("/library/sections/%s/all?includeGuids=1", sectionKey)
	var result itemsResponse
	if err := c.getXML(ctx, path, &result); err != nil {
		return nil, err
	}
	return result.items(), nil
}

// Albums returns the albums under an artist. Music libraries keep poster art
// on albums, one level below the artists a section listing yields.
func (c *Client) Albums(ctx context.Context, artistRatingKey string) ([]Item, error) {
	path := fmt.Sprintf("/library/metadata/%s/children", artistRatingKey)
	var result itemsResponse
	if err := c.getXML(ctx, path, &result); err != nil {
		return nil, err
	}
	return result.items(), nil
}

// AggregatedGUID renders an item's identifiers as a single searchable string:
// the item's own guid followed by each external id in {source-id} form.
func (it Item) AggregatedGUID() string {
	parts := make([]string, 0, len(it.Guids)+1)
	if it.GUID != "" {
		parts = append(parts, it.GUID)
	}
	for _, g := range it.Guids {
		if source, id, ok := strings.Cut(g, "://"); ok && source != "plex" {
			parts = append(parts, "{"+source+"-"+id+"}")
		} else {
			parts = append(parts, g)
		}
	}
	return strings.Join(parts, " ")
}

// PosterURL builds the full poster URL for a thumb path, resolved from this
// connection's address rather than the environment.
func (c *Client) PosterURL(thumb string) string {
	return c.baseURL + thumb + "?X-Plex-Token=" + url.QueryEscape(c.token)
}

// DownloadPoster streams the poster at thumb to dest. The save path must
// already be deduplicated; an existing file at dest is overwritten.
func (c *Client) DownloadPoster(ctx context.Context, thumb, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PosterURL(thumb), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	if c.log != nil {
		c.log.Debug("poster saved", "thumb", thumb, "dest", dest)
	}
	return nil
}
