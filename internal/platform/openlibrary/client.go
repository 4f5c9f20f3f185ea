// Package openlibrary is the external catalog client used to enrich book
// records during synchronization.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"booksync/internal/book"
)

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient builds a catalog client. The caller owns retry policy; a failed
// fetch is reported once and not retried here.
func NewClient(baseURL, userAgent string, rps int) *Client {
	if baseURL == "" {
		baseURL = "https://openlibrary.org"
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: userAgent,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

type publisher struct {
	Name string `json:"name"`
}

// bookDetails matches api/books?jscmd=data
type bookDetails struct {
	Title      string      `json:"title"`
	Subtitle   string      `json:"subtitle"`
	Publishers []publisher `json:"publishers"`
	Cover      struct {
		Large string `json:"large"`
	} `json:"cover"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Subjects []struct {
		Name string `json:"name"`
	} `json:"subjects"`
	NumberOfPages int    `json:"number_of_pages"`
	Notes         string `json:"notes"`
}

// FetchMetadataForBook fetches the metadata for one ISBN and maps it into a
// Book. Network failure, a non-2xx status, a malformed payload, and an ISBN
// the provider does not know all surface as a plain error; callers do not
// distinguish the subtypes.
func (c *Client) FetchMetadataForBook(ctx context.Context, isbn string) (book.Book, error) {
	u := fmt.Sprintf("%s/api/books?bibkeys=ISBN:%s&format=json&jscmd=data",
		c.baseURL, url.QueryEscape(isbn))

	if err := c.limiter.Wait(ctx); err != nil {
		return book.Book{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return book.Book{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return book.Book{}, fmt.Errorf("openlibrary request for %s: %w", isbn, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return book.Book{}, fmt.Errorf("openlibrary request for %s: unexpected status code %d", isbn, resp.StatusCode)
	}

	var payload map[string]bookDetails
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return book.Book{}, fmt.Errorf("openlibrary response for %s: %w", isbn, err)
	}

	details, ok := payload["ISBN:"+isbn]
	if !ok {
		return book.Book{}, fmt.Errorf("openlibrary has no metadata for %s", isbn)
	}

	return mapDetails(isbn, details), nil
}

func mapDetails(isbn string, d bookDetails) book.Book {
	b := book.Book{
		ISBN:         isbn,
		Title:        d.Title,
		Description:  d.Notes,
		PageCount:    d.NumberOfPages,
		ThumbnailURL: d.Cover.Large,
	}

	authors := make([]string, 0, len(d.Authors))
	for _, a := range d.Authors {
		authors = append(authors, a.Name)
	}
	b.Author = strings.Join(authors, ", ")

	publishers := make([]string, 0, len(d.Publishers))
	for _, p := range d.Publishers {
		publishers = append(publishers, p.Name)
	}
	b.Publisher = strings.Join(publishers, ", ")

	if len(d.Subjects) > 0 {
		b.Genre = d.Subjects[0].Name
	}

	return b
}
