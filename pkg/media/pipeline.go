package media

import (
	"context"
	"fmt"
	"time"
)

// DefaultTimeout bounds a single pipeline run.
const DefaultTimeout = 2 * time.Minute

// AvatarOptions configures the avatar pipeline.
type AvatarOptions struct {
	FaceDetectionRequired bool
	Size                  int
	Quality               int
	Pathname              string
}

// DefaultAvatarOptions matches the stock avatar field: square crop, face
// detection on, 400x400 at full quality under /avatars/.
func DefaultAvatarOptions() AvatarOptions {
	return AvatarOptions{
		FaceDetectionRequired: true,
		Size:                  400,
		Quality:               100,
		Pathname:              "/avatars/",
	}
}

// GridOptions configures the image grid pipeline.
type GridOptions struct {
	Aspect   float64
	Width    int
	Height   int
	Quality  int
	Pathname string
}

// DefaultGridOptions matches the stock grid field: 3:4 crop, 900x1200 at
// quality 80 under /images/.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		Aspect:   3.0 / 4.0,
		Width:    900,
		Height:   1200,
		Quality:  80,
		Pathname: "/images/",
	}
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// Pipeline runs image pipelines against a set of services.
type Pipeline struct {
	services Services
	timeout  time.Duration
}

// NewPipeline wraps services, filling the crop and resize stages with the
// in-process defaults when the host supplies none.
func NewPipeline(services Services, options ...Option) *Pipeline {
	if services.Cropper == nil {
		services.Cropper = CenterCropper{}
	}
	if services.Resizer == nil {
		services.Resizer = DrawResizer{}
	}
	p := &Pipeline{services: services, timeout: DefaultTimeout}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Services returns the collaborators in use.
func (p *Pipeline) Services() Services {
	return p.services
}

// Avatar picks, crops to a square, checks for faces, resizes and uploads an
// avatar. It returns the storage path reported by the uploader.
func (p *Pipeline) Avatar(ctx context.Context, opts AvatarOptions) (string, error) {
	if p == nil {
		return "", ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	img, err := p.pickAndCrop(ctx, 1)
	if err != nil {
		return "", err
	}

	if opts.FaceDetectionRequired {
		if p.services.FaceDetector == nil {
			return "", fmt.Errorf("media: face detector: %w", ErrUnavailable)
		}
		faces, err := p.services.FaceDetector.DetectFaces(ctx, img)
		if err != nil {
			return "", fmt.Errorf("media: detect faces: %w", err)
		}
		if faces == 0 {
			return "", ErrNoFaces
		}
	}

	img, err = p.services.Resizer.Resize(ctx, img, ResizeOptions{
		Width:   opts.Size,
		Height:  opts.Size,
		Quality: opts.Quality,
	})
	if err != nil {
		return "", fmt.Errorf("media: resize: %w", err)
	}
	return p.upload(ctx, img, opts.Pathname)
}

// GridImage picks, crops, resizes and uploads one image grid slot.
func (p *Pipeline) GridImage(ctx context.Context, opts GridOptions) (string, error) {
	if p == nil {
		return "", ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	aspect := opts.Aspect
	if aspect <= 0 {
		aspect = DefaultGridOptions().Aspect
	}
	img, err := p.pickAndCrop(ctx, aspect)
	if err != nil {
		return "", err
	}

	img, err = p.services.Resizer.Resize(ctx, img, ResizeOptions{
		Width:   opts.Width,
		Height:  opts.Height,
		Quality: opts.Quality,
	})
	if err != nil {
		return "", fmt.Errorf("media: resize: %w", err)
	}
	return p.upload(ctx, img, opts.Pathname)
}

// Remove deletes an uploaded image. Without a deleter it is a no-op.
func (p *Pipeline) Remove(ctx context.Context, path string) error {
	if p == nil || p.services.Deleter == nil || path == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.services.Deleter.Delete(ctx, path); err != nil {
		return fmt.Errorf("media: delete %q: %w", path, err)
	}
	return nil
}

// PublicURL resolves a storage path, returning it unchanged without an
// asset resolver.
func (p *Pipeline) PublicURL(path string) string {
	if p == nil || p.services.Assets == nil || path == "" {
		return path
	}
	return p.services.Assets.PublicURL(path)
}

func (p *Pipeline) pickAndCrop(ctx context.Context, aspect float64) (Image, error) {
	if p.services.Picker == nil {
		return Image{}, fmt.Errorf("media: picker: %w", ErrUnavailable)
	}
	img, err := p.services.Picker.Pick(ctx)
	if err != nil {
		return Image{}, fmt.Errorf("media: pick: %w", err)
	}
	img, err = p.services.Cropper.Crop(ctx, img, aspect)
	if err != nil {
		return Image{}, fmt.Errorf("media: crop: %w", err)
	}
	return img, nil
}

func (p *Pipeline) upload(ctx context.Context, img Image, pathname string) (string, error) {
	if p.services.Uploader == nil {
		return "", fmt.Errorf("media: uploader: %w", ErrUnavailable)
	}
	path, err := p.services.Uploader.Upload(ctx, img, img.Ext(), pathname)
	if err != nil {
		return "", fmt.Errorf("media: upload: %w", err)
	}
	return path, nil
}
