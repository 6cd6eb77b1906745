package generation

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	genPort "mediamgr/internal/ports/generation"

	"go.uber.org/zap"
)

const (
	DefaultTimeout = 15 * time.Second

	captionPrompt   = "Generate an engaging social media caption for: %s. Keep it concise, engaging, and include relevant hashtags."
	fallbackCaption = "🚀 Exciting content about %s! Transform your social media strategy with AI-powered content generation. #AI #SocialMedia #ContentCreation #Innovation"

	placeholderImageURL = "https://via.placeholder.com/400x400/6366f1/ffffff?text="
	placeholderVideoURL = "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_1mb.mp4?theme="
)

// Orchestrator تولید کپشن و رسانه با fallback قطعی.
// None of its methods return an error: provider failures degrade to fallback content.
type Orchestrator struct {
	Text    genPort.TextProvider
	Image   genPort.ImageProvider
	Video   genPort.VideoProvider
	Timeout time.Duration
	Logger  *zap.Logger
}

func NewOrchestrator(
	text genPort.TextProvider,
	image genPort.ImageProvider,
	video genPort.VideoProvider,
	timeout time.Duration,
	logger *zap.Logger,
) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		Text:    text,
		Image:   image,
		Video:   video,
		Timeout: timeout,
		Logger:  logger,
	}
}

func CaptionPrompt(theme string) string {
	return fmt.Sprintf(captionPrompt, theme)
}

func FallbackCaption(theme string) string {
	return fmt.Sprintf(fallbackCaption, theme)
}

func PlaceholderImageURL(theme string) string {
	return placeholderImageURL + escapeQueryValue(theme)
}

func PlaceholderVideoURL(theme string) string {
	return placeholderVideoURL + escapeQueryValue(theme)
}

// escapeQueryValue encodes spaces as %20; a literal '+' is already %2B after QueryEscape.
func escapeQueryValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// GenerateCaption returns the provider's first candidate verbatim, or the fallback caption.
func (o *Orchestrator) GenerateCaption(ctx context.Context, theme string) string {
	if o.Text == nil {
		return FallbackCaption(theme)
	}

	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	text, err := o.Text.GenerateText(ctx, CaptionPrompt(theme))
	if err != nil {
		o.Logger.Warn("caption provider failed, using fallback", zap.String("theme", theme), zap.Error(err))
		return FallbackCaption(theme)
	}
	if strings.TrimSpace(text) == "" {
		o.Logger.Warn("caption provider returned empty candidate, using fallback", zap.String("theme", theme))
		return FallbackCaption(theme)
	}
	return text
}

func (o *Orchestrator) GenerateImage(ctx context.Context, theme string) string {
	if o.Image == nil {
		return PlaceholderImageURL(theme)
	}
	return o.media(ctx, "image", theme, o.Image.GenerateImage, PlaceholderImageURL)
}

func (o *Orchestrator) GenerateVideo(ctx context.Context, theme string) string {
	if o.Video == nil {
		return PlaceholderVideoURL(theme)
	}
	return o.media(ctx, "video", theme, o.Video.GenerateVideo, PlaceholderVideoURL)
}

func (o *Orchestrator) media(
	ctx context.Context,
	kind, theme string,
	generate func(context.Context, string) (string, error),
	placeholder func(string) string,
) string {
	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	u, err := generate(ctx, theme)
	if err != nil || strings.TrimSpace(u) == "" {
		o.Logger.Warn("media provider failed, using placeholder",
			zap.String("kind", kind), zap.String("theme", theme), zap.Error(err))
		return placeholder(theme)
	}
	return u
}
