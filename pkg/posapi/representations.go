package posapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/touchpos/touchpos/pkg/session"
)

// CreateResult carries the wire level payloads of a create call so callers
// can diagnose validation failures, not only whether it succeeded.
type CreateResult struct {
	Success      bool
	Message      string
	StatusCode   int
	ResponseBody string
	RequestBody  string
}

// CreateRepresentation submits a new representation. Every server answer,
// accepted or not, is returned as a CreateResult; errors are transport
// failures only.
func (c *Client) CreateRepresentation(ctx context.Context, s *session.Session, req RepresentationCreateRequest) (CreateResult, error) {
	csrf, ok := c.EnsureCsrfToken(ctx, s)
	if !ok {
		return CreateResult{Message: MsgNoCSRF}, nil
	}
	if req.Items == nil {
		req.Items = []RepresentationCreateItem{}
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return CreateResult{}, err
	}

	h := c.mutatingHeader(csrf, pathRepresentations, "application/json; charset=utf-8")
	r, err := c.send(ctx, s, http.MethodPost, pathRepresentations, bytes.NewReader(payload), h)
	if err != nil {
		return CreateResult{}, err
	}

	res := CreateResult{
		StatusCode:   r.status,
		ResponseBody: string(r.body),
		RequestBody:  string(payload),
	}
	if r.ok() {
		res.Success = true
		res.Message = MsgOK
		return res, nil
	}
	if r.status == http.StatusUnauthorized {
		s.End()
	}
	res.Message = detailOr(r.body, MsgCreateRejected)
	c.log.Warning("api: create representation rejected with %d: %s", r.status, res.Message)
	return res, nil
}

// Representations lists all representations visible to the session.
func (c *Client) Representations(ctx context.Context, s *session.Session) ([]Representation, error) {
	return getList[Representation](ctx, c, s, pathRepresentations)
}

// Representation fetches one representation with its items.
func (c *Client) Representation(ctx context.Context, s *session.Session, id int) (*Representation, error) {
	return getOne[Representation](ctx, c, s, pathRepresentations+strconv.Itoa(id)+"/")
}

// Me returns the logged-in user.
func (c *Client) Me(ctx context.Context, s *session.Session) (*User, error) {
	return getOne[User](ctx, c, s, pathMe)
}

func (c *Client) User(ctx context.Context, s *session.Session, id int) (*User, error) {
	return getOne[User](ctx, c, s, pathUsers+strconv.Itoa(id)+"/")
}

func (c *Client) Warehouses(ctx context.Context, s *session.Session) ([]Warehouse, error) {
	return getList[Warehouse](ctx, c, s, pathWarehouses)
}

func (c *Client) RepresentationReasons(ctx context.Context, s *session.Session) ([]RepresentationReason, error) {
	return getList[RepresentationReason](ctx, c, s, pathReasons)
}

func (c *Client) DrinkCategories(ctx context.Context, s *session.Session) ([]DrinkCategory, error) {
	return getList[DrinkCategory](ctx, c, s, pathDrinkCategories)
}

// Artikli lists every inventory item, sellable or not.
func (c *Client) Artikli(ctx context.Context, s *session.Session) ([]Artikl, error) {
	return getList[Artikl](ctx, c, s, pathArtikli)
}
