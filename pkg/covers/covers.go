// Package covers finds and saves a cover image for a game folder.
//
// A folder that already holds an image is left alone. Otherwise the
// candidates are tried in order until one yields an image:
//
//  1. the image hint from the source lists;
//  2. the Steam header image, when a Steam app id is known;
//  3. the social preview image of the primary store page;
//  4. the social preview image of every other store page.
//
// Fetch failures and responses that are not images move on to the next
// candidate. Resolution never fails loudly: when nothing works the folder
// simply has no cover.
package covers

import (
	"context"
	"net/http"

	"github.com/clockworksproduction/gamecat/internal/scrape"
	"github.com/clockworksproduction/gamecat/pkg/constants"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/logging"
	"github.com/clockworksproduction/gamecat/pkg/stores"
)

// Fetcher retrieves images and pages.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	Page(ctx context.Context, url string) (string, error)
}

// ImageStore is the part of the output tree the resolver writes to.
type ImageStore interface {
	// Image returns the name of the folder's existing cover image.
	Image(folder string) (string, bool)
	// SaveImage writes the image without leaving a partial file behind and
	// returns its path.
	SaveImage(folder, name string, data []byte) (string, error)
	Path(folder string, name ...string) string
}

// Request describes the game whose cover is wanted.
type Request struct {
	// Folder is the game's folder name in the output tree.
	Folder     string
	ImageHint  string
	AppIDs     games.AppIDs
	StoreURLs  games.StoreURLs
	PrimaryURL string
}

// RequestFor builds a request from persisted metadata.
func RequestFor(folder string, meta games.Meta, imageHint string) Request {
	_, primary, _ := meta.Primary()
	return Request{
		Folder:     folder,
		ImageHint:  imageHint,
		AppIDs:     meta.AppID,
		StoreURLs:  meta.StoreURL,
		PrimaryURL: primary,
	}
}

// Step identifies where a cover came from.
type Step int

const (
	StepExisting Step = iota
	StepHint
	StepSteamHeader
	StepPrimaryPage
	StepStorePage
)

var stepNames = [...]string{"existing", "hint", "steam-header", "primary-page", "store-page"}

// String returns the step name.
func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is a resolved cover.
type Result struct {
	Folder string `json:"folder"`
	Path   string `json:"path"`
	Step   Step   `json:"step"`
	// URL is the image URL that was downloaded; empty for existing images.
	URL string `json:"url,omitempty"`
}

// Resolver acquires cover images.
type Resolver struct {
	fetcher Fetcher
	images  ImageStore
}

// NewResolver returns a Resolver.
func NewResolver(fetcher Fetcher, images ImageStore) *Resolver {
	return &Resolver{fetcher: fetcher, images: images}
}

// Resolve returns the path of the folder's cover, downloading one if needed.
func (r *Resolver) Resolve(ctx context.Context, req Request) (string, bool) {
	res, ok := r.Acquire(ctx, req)
	return res.Path, ok
}

// Acquire is Resolve with details of where the cover came from.
func (r *Resolver) Acquire(ctx context.Context, req Request) (Result, bool) {
	if name, ok := r.images.Image(req.Folder); ok {
		return Result{Folder: req.Folder, Path: r.images.Path(req.Folder, name), Step: StepExisting}, true
	}

	ctx = logging.WithFolder(ctx, req.Folder)
	for _, c := range r.candidates(req) {
		if ctx.Err() != nil {
			break
		}
		res, err := r.try(ctx, req.Folder, c)
		if err == nil {
			logging.FromContext(ctx).Info().
				Stringer("step", res.Step).
				Str("url", res.URL).
				Msg("Saved cover image")
			return res, true
		}
		logging.FromContext(ctx).Debug().Err(err).Stringer("step", c.step).Msg("Cover candidate failed")
	}
	return Result{Folder: req.Folder}, false
}

// candidate is an image URL, or a page to read a preview image from.
type candidate struct {
	step  Step
	image string
	page  string
}

func (r *Resolver) candidates(req Request) []candidate {
	var out []candidate
	if req.ImageHint != "" {
		if u, ok := scrape.ResolveURL(req.PrimaryURL, req.ImageHint); ok {
			out = append(out, candidate{step: StepHint, image: u})
		}
	}
	if id, ok := req.AppIDs.Steam(); ok {
		out = append(out, candidate{step: StepSteamHeader, image: stores.SteamHeaderURL(id)})
	}
	if req.PrimaryURL != "" {
		out = append(out, candidate{step: StepPrimaryPage, page: req.PrimaryURL})
	}
	for _, s := range stores.All() {
		if link := req.StoreURLs.Get(s); link != "" && link != req.PrimaryURL {
			out = append(out, candidate{step: StepStorePage, page: link})
		}
	}
	return out
}

func (r *Resolver) try(ctx context.Context, folder string, c candidate) (Result, error) {
	imageURL := c.image
	if c.page != "" {
		page, err := r.fetcher.Page(ctx, c.page)
		if err != nil {
			return Result{}, err
		}
		ref, ok := scrape.SocialImage(page)
		if !ok {
			return Result{}, errors.NewNotFoundError("preview image", c.page)
		}
		if imageURL, ok = scrape.ResolveURL(c.page, ref); !ok {
			return Result{}, errors.NewValidationError("image", ref, "unusable image URL")
		}
	}

	data, err := r.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return Result{}, err
	}
	ext, err := Extension(data)
	if err != nil {
		return Result{}, err
	}
	saved, err := r.images.SaveImage(folder, constants.CoverBase+ext, data)
	if err != nil {
		return Result{}, err
	}
	return Result{Folder: folder, Path: saved, Step: c.step, URL: imageURL}, nil
}

// contentTypes maps the sniffed image types a cover may have to file
// extensions.
var contentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Extension sniffs data and returns the file extension to save it under.
// Anything but a JPEG, PNG, GIF or WebP image is rejected with
// errors.ErrNotImage.
func Extension(data []byte) (string, error) {
	if ext, ok := contentTypes[http.DetectContentType(data)]; ok {
		return ext, nil
	}
	return "", errors.ErrNotImage
}
