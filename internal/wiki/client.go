package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/tidwall/gjson"
)

const (
	DefaultAPIURL    = "https://nl.wikipedia.org/w/api.php"
	DefaultUserAgent = "Herhaalbot/2.0 (https://nl.wikipedia.org/wiki/Gebruiker:Herhaalbot)"
	DefaultTimeout   = 30 * time.Second

	// expandtemplates needs a context title for magic words such as {{PAGENAME}}.
	expandContextTitle = "API"

	timestampLayout = "2006-01-02T15:04:05Z"
)

// Options configures a Client.
type Options struct {
	APIURL      string
	UserAgent   string
	BearerToken string // OAuth 2 owner-only access token; empty edits anonymously
	Timeout     time.Duration
}

// Client is a Site backed by the MediaWiki Action API.
type Client struct {
	endpoint    string
	userAgent   string
	bearerToken string
	http        *client.Client

	mu        sync.Mutex
	csrfToken string
}

var _ Site = (*Client)(nil)

func NewClient(opts Options) (*Client, error) {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	hc, err := client.NewClient(
		client.WithDialTimeout(opts.Timeout),
		client.WithClientReadTimeout(opts.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}
	hlog.Infof("Wiki client configured for %s", opts.APIURL)
	return &Client{
		endpoint:    opts.APIURL,
		userAgent:   opts.UserAgent,
		bearerToken: opts.BearerToken,
		http:        hc,
	}, nil
}

// call posts params to api.php and returns the raw JSON body.
func (c *Client) call(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer protocol.ReleaseRequest(req)
	defer protocol.ReleaseResponse(resp)

	req.SetRequestURI(c.endpoint)
	req.SetMethod(consts.MethodPost)
	req.Header.SetContentTypeBytes([]byte(consts.MIMEApplicationHTMLForm))
	req.Header.SetUserAgentBytes([]byte(c.userAgent))
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
	req.SetBodyString(params.Encode())

	action := params.Get("action")
	if err := c.http.Do(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("api %s request failed: %w", action, err)
	}
	if resp.StatusCode() != consts.StatusOK {
		return nil, fmt.Errorf("api %s returned HTTP %d", action, resp.StatusCode())
	}

	// resp is released on return, keep a copy of the body
	body := append([]byte(nil), resp.Body()...)
	if apiErr := gjson.GetBytes(body, "error"); apiErr.Exists() {
		return nil, &APIError{Code: apiErr.Get("code").String(), Info: apiErr.Get("info").String()}
	}
	return body, nil
}

func (c *Client) Page(ctx context.Context, title string) (Page, error) {
	body, err := c.call(ctx, url.Values{
		"action":       {"query"},
		"prop":         {"revisions"},
		"titles":       {title},
		"rvprop":       {"content|timestamp"},
		"rvslots":      {"main"},
		"curtimestamp": {"1"},
	})
	if err != nil {
		return Page{}, fmt.Errorf("fetching page %q: %w", title, err)
	}

	p := gjson.GetBytes(body, "query.pages.0")
	if !p.Exists() {
		return Page{}, fmt.Errorf("fetching page %q: no page in response", title)
	}
	if p.Get("invalid").Bool() {
		return Page{}, &APIError{Code: "invalidtitle", Info: p.Get("invalidreason").String()}
	}

	page := Page{Title: title, Fetched: parseTimestamp(gjson.GetBytes(body, "curtimestamp").String())}
	if normalized := p.Get("title").String(); normalized != "" {
		page.Title = normalized
	}
	if p.Get("missing").Bool() {
		return page, nil
	}
	page.Exists = true
	page.Text = p.Get("revisions.0.slots.main.content").String()
	page.Revision = parseTimestamp(p.Get("revisions.0.timestamp").String())
	return page, nil
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (c *Client) ExpandText(ctx context.Context, text string) (string, error) {
	body, err := c.call(ctx, url.Values{
		"action": {"expandtemplates"},
		"text":   {text},
		"prop":   {"wikitext"},
		"title":  {expandContextTitle},
	})
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", text, err)
	}
	return gjson.GetBytes(body, "expandtemplates.wikitext").String(), nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.csrfToken != "" {
		return c.csrfToken, nil
	}
	body, err := c.call(ctx, url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {"csrf"},
	})
	if err != nil {
		return "", fmt.Errorf("fetching csrf token: %w", err)
	}
	c.csrfToken = gjson.GetBytes(body, "query.tokens.csrftoken").String()
	if c.csrfToken == "" {
		return "", fmt.Errorf("fetching csrf token: empty token in response")
	}
	return c.csrfToken, nil
}

func (c *Client) forgetToken() {
	c.mu.Lock()
	c.csrfToken = ""
	c.mu.Unlock()
}

func (c *Client) Create(ctx context.Context, title, text, summary string) error {
	return c.save(ctx, title, text, summary, url.Values{"createonly": {"1"}})
}

func (c *Client) Update(ctx context.Context, base Page, text, summary string) error {
	extra := url.Values{"nocreate": {"1"}}
	if !base.Revision.IsZero() {
		extra.Set("basetimestamp", base.Revision.UTC().Format(timestampLayout))
	}
	if !base.Fetched.IsZero() {
		extra.Set("starttimestamp", base.Fetched.UTC().Format(timestampLayout))
	}
	return c.save(ctx, base.Title, text, summary, extra)
}

func (c *Client) Save(ctx context.Context, title, text, summary string) error {
	return c.save(ctx, title, text, summary, nil)
}

func (c *Client) save(ctx context.Context, title, text, summary string, extra url.Values) error {
	err := c.edit(ctx, title, text, summary, extra)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == "badtoken" {
		hlog.Warnf("CSRF token rejected while saving %q, fetching a new one", title)
		c.forgetToken()
		err = c.edit(ctx, title, text, summary, extra)
	}
	if err != nil {
		return fmt.Errorf("saving page %q: %w", title, err)
	}
	return nil
}

func (c *Client) edit(ctx context.Context, title, text, summary string, extra url.Values) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	params := url.Values{
		"action":  {"edit"},
		"title":   {title},
		"text":    {text},
		"summary": {summary},
		"bot":     {"1"},
		"token":   {token},
	}
	for k, v := range extra {
		params[k] = v
	}
	body, err := c.call(ctx, params)
	if err != nil {
		return err
	}
	if result := gjson.GetBytes(body, "edit.result").String(); result != "Success" {
		return fmt.Errorf("edit result %q", result)
	}
	return nil
}
