// Package imagehost uploads avatars to Cloudinary.
package imagehost

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	cldconfig "github.com/cloudinary/cloudinary-go/v2/config"
)

var ErrNotConfigured = errors.New("image host is not configured")

type Config struct {
	// URL is a cloudinary://<api_key>:<api_secret>@<cloud_name> connection
	// string. An empty URL leaves the client disabled.
	URL string
	// UploadPrefix overrides the upload API origin, e.g. for a local fake.
	UploadPrefix string
	Folder       string
}

type Result struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type Client struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return &Client{}, nil
	}

	conf, err := cldconfig.NewFromURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse cloudinary url: %w", err)
	}
	if cfg.UploadPrefix != "" {
		conf.API.UploadPrefix = cfg.UploadPrefix
	}

	cld, err := cloudinary.NewFromConfiguration(*conf)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}
	return &Client{cld: cld, folder: cfg.Folder}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.cld != nil
}

// Upload pushes the image and returns its hosted location.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (Result, error) {
	if !c.Enabled() {
		return Result{}, ErrNotConfigured
	}

	resp, err := c.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{Folder: c.folder})
	if err != nil {
		return Result{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	if resp.Error.Message != "" {
		return Result{}, fmt.Errorf("upload %s: %s", filename, resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return Result{}, fmt.Errorf("upload %s: response has no secure_url", filename)
	}

	return Result{
		SecureURL: resp.SecureURL,
		PublicID:  resp.PublicID,
		Width:     resp.Width,
		Height:    resp.Height,
	}, nil
}
