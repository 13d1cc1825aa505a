package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/iho/autosave/internal/usecase/mocks"
)

func TestIdempotencyMiddleware_ScopesKeyByRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	const scoped = "POST /api/v1/users/u-1/wallets/w-1/roundups key-1"
	gomock.InOrder(
		store.EXPECT().CheckAndSet(gomock.Any(), scoped, gomock.Nil(), time.Hour).Return(false, nil, nil),
		store.EXPECT().Update(gomock.Any(), scoped, gomock.Any(), time.Hour).
			DoAndReturn(func(_ context.Context, _ string, payload []byte, _ time.Duration) error {
				var cached cachedResponse
				if err := json.Unmarshal(payload, &cached); err != nil {
					t.Fatalf("stored payload is not json: %v", err)
				}
				if cached.Status != http.StatusCreated {
					t.Fatalf("expected stored status 201, got %d", cached.Status)
				}
				return nil
			}),
	)

	mw := NewIdempotencyMiddleware(store, time.Hour, zerolog.Nop())
	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"r-1"}`))
	})).ServeHTTP(rr, newPost("key-1"))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
}
