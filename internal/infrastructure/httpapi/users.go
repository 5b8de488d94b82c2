package httpapi

import (
	"context"
	"net/http"
	"net/url"

	"freightdesk/internal/domain/user"
)

func (c *Client) ListUsers(ctx context.Context, filter user.ListFilter) (user.Page, error) {
	r, err := get("/api/users").withQuery(filter)
	if err != nil {
		return user.Page{}, err
	}
	items, total, err := fetchList[user.User](ctx, c, r)
	if err != nil {
		return user.Page{}, err
	}
	return user.Page{Items: items, Total: total}, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (user.User, error) {
	return fetch[user.User](ctx, c, get(idPath("/api/users/%d", id)))
}

func (c *Client) CreateUser(ctx context.Context, create user.CreateRequest) (user.User, error) {
	return fetch[user.User](ctx, c, request{method: http.MethodPost, path: "/api/users", body: create})
}

func (c *Client) UpdateUser(ctx context.Context, id int64, update user.UpdateRequest) (user.User, error) {
	return fetch[user.User](ctx, c, request{method: http.MethodPut, path: idPath("/api/users/%d", id), body: update})
}

func (c *Client) DeactivateUser(ctx context.Context, id int64) (user.User, error) {
	return fetch[user.User](ctx, c, request{method: http.MethodPatch, path: idPath("/api/users/%d/deactivate", id)})
}

func (c *Client) UsersByRole(ctx context.Context, role string) ([]user.User, error) {
	items, _, err := fetchList[user.User](ctx, c, get("/api/users/role/"+url.PathEscape(role)))
	return items, err
}
