package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/factionops/scopebot/internal/adapters/notify"
	"github.com/factionops/scopebot/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingNotifier struct {
	delivered []string
	fail      map[string]bool
}

func (r *recordingNotifier) Notify(ctx context.Context, target, body string) error {
	if r.fail[target] {
		return errors.New("recipient unreachable")
	}
	r.delivered = append(r.delivered, target)
	return nil
}

func TestDispatcher_Dispatch(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	Convey("Given a batch with one unreachable target", t, func() {
		backend := &recordingNotifier{fail: map[string]bool{"vex": true}}
		dispatcher := notify.NewDispatcher(backend, logger.Named("test"))

		msgs := []notify.Message{
			{Target: "shandurai", Body: "first"},
			{Target: "vex", Body: "second"},
			{Target: "faction", Body: "third"},
		}

		Convey("When dispatching", func() {
			dispatcher.Dispatch(context.Background(), msgs)

			Convey("Then the failure is skipped and the rest still deliver", func() {
				So(backend.delivered, ShouldResemble, []string{"shandurai", "faction"})
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		backend := &recordingNotifier{}
		dispatcher := notify.NewDispatcher(backend, logger.Named("test"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("When dispatching", func() {
			dispatcher.Dispatch(ctx, []notify.Message{{Target: "shandurai", Body: "late"}})

			Convey("Then nothing is delivered", func() {
				So(backend.delivered, ShouldBeEmpty)
			})
		})
	})
}

func TestWebhookNotifier_Notify(t *testing.T) {
	Convey("Given a webhook endpoint", t, func() {
		var payload struct {
			Content  string `json:"content"`
			Username string `json:"username"`
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&payload)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		wh := notify.NewWebhook(srv.URL)

		Convey("When notifying a member", func() {
			err := wh.Notify(context.Background(), "shandurai", "you are eligible")

			Convey("Then the target is rendered as a mention", func() {
				So(err, ShouldBeNil)
				So(payload.Content, ShouldEqual, "@shandurai you are eligible")
				So(payload.Username, ShouldEqual, "scopebot")
			})
		})

		Convey("When notifying without a target", func() {
			err := wh.Notify(context.Background(), "", "broadcast")

			Convey("Then the body posts as-is", func() {
				So(err, ShouldBeNil)
				So(payload.Content, ShouldEqual, "broadcast")
			})
		})
	})

	Convey("Given a rejecting webhook endpoint", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		wh := notify.NewWebhook(srv.URL)

		Convey("When notifying", func() {
			err := wh.Notify(context.Background(), "vex", "blocked")

			Convey("Then the delivery sentinel is returned", func() {
				So(errors.Is(err, notify.ErrDeliver), ShouldBeTrue)
			})
		})
	})
}
