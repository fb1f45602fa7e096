package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixelcast/backend/internal/application/constant"
	"github.com/pixelcast/backend/internal/domain/models"
	"github.com/pixelcast/backend/internal/infra/adapters/srs"
)

// SignalUsecase forwards session offer/answer exchanges and stream control
// to SRS. It carries no media itself.
type SignalUsecase interface {
	Publish(ctx context.Context, app, stream, sdpOffer string) (string, error)
	Play(ctx context.Context, app, stream, sdpOffer string) (string, error)
	Streams(ctx context.Context) []models.StreamSnapshot
	StopStream(ctx context.Context, streamID string) error
	Monitor(ctx context.Context) (json.RawMessage, error)
}

type signalUsecase struct {
	srs *srs.Client
}

func NewSignalUsecase(srsClient *srs.Client) SignalUsecase {
	return &signalUsecase{srs: srsClient}
}

func (u *signalUsecase) Publish(ctx context.Context, app, stream, sdpOffer string) (string, error) {
	if app == "" || stream == "" {
		return "", ErrMissingParameter
	}
	if sdpOffer == "" {
		return "", ErrMissingParameter
	}

	answer, err := u.srs.Publish(ctx, app, stream, sdpOffer)
	if err != nil {
		return "", fmt.Errorf("whip exchange: %w", err)
	}

	return answer, nil
}

func (u *signalUsecase) Play(ctx context.Context, app, stream, sdpOffer string) (string, error) {
	if app == "" || stream == "" {
		return "", ErrMissingParameter
	}
	if sdpOffer == "" {
		return "", ErrMissingParameter
	}

	answer, err := u.srs.Play(ctx, app, stream, sdpOffer)
	if err != nil {
		return "", fmt.Errorf("whep exchange: %w", err)
	}

	return answer, nil
}

func (u *signalUsecase) Streams(ctx context.Context) []models.StreamSnapshot {
	return u.srs.FetchStreams(ctx)
}

// StopStream kicks the SRS client behind streamID. When streamID is not a
// client id, the publisher of the stream with that name is kicked instead.
func (u *signalUsecase) StopStream(ctx context.Context, streamID string) error {
	if streamID == "" {
		return ErrMissingParameter
	}

	if err := u.srs.KickClient(ctx, streamID); err == nil {
		return nil
	}

	for _, s := range u.srs.FetchStreams(ctx) {
		if s.Name != streamID || s.Publish.CID == "" {
			continue
		}

		if err := u.srs.KickClient(ctx, s.Publish.CID); err != nil {
			return fmt.Errorf("kick publisher: %w", err)
		}

		slog.Info(
			"kicked stream publisher",
			slog.String(constant.StreamName, streamID),
			slog.String(constant.ClientID, s.Publish.CID),
		)

		return nil
	}

	// The stream is already gone; stopping it is a no-op.
	return nil
}

func (u *signalUsecase) Monitor(ctx context.Context) (json.RawMessage, error) {
	return u.srs.Summaries(ctx)
}
