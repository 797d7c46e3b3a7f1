package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/factionops/scopebot/internal/adapters/http/api"
	"github.com/factionops/scopebot/internal/app"
	"github.com/factionops/scopebot/internal/domain/eligibility"
	"github.com/factionops/scopebot/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// stubDeps answers every handler dependency from fixed data and records
// write-back actions.
type stubDeps struct {
	completed []int
	cleared   []int
}

func (s *stubDeps) Status(ctx context.Context) (string, int, error) {
	return "Night Shift", 4, nil
}

func (s *stubDeps) Balance(ctx context.Context, memberRef string) (model.MemberBalance, error) {
	if !strings.Contains(memberRef, "25719") {
		return model.MemberBalance{}, fmt.Errorf("%w: %s", app.ErrUnknownMember, memberRef)
	}
	return model.MemberBalance{ID: "25719", Username: "shandurai", Money: 1_500_000, Points: 42}, nil
}

func (s *stubDeps) BalanceRequest(ctx context.Context, memberRef string, amount int64) (string, error) {
	if amount > 1_500_000 {
		return "", fmt.Errorf("%w: balance is $1500000", app.ErrInsufficientBalance)
	}
	return fmt.Sprintf("https://example.test/give?to=25719&money=%d", amount), nil
}

func (s *stubDeps) AssignmentReport(ctx context.Context) (string, error) {
	return "shandurai [25719] -> Heist as Driver (CPR 85)", nil
}

func (s *stubDeps) Eligibility(ctx context.Context, memberID string) (eligibility.Suggestion, bool, error) {
	switch memberID {
	case "25719":
		return eligibility.Suggestion{Level: 8, ScopeCost: 4}, true, nil
	case "31001":
		return eligibility.Suggestion{}, false, nil
	default:
		return eligibility.Suggestion{}, false, fmt.Errorf("%w: %s", app.ErrNotEvaluable, memberID)
	}
}

func (s *stubDeps) Delinquents(ctx context.Context) ([]app.TransferLink, error) {
	return []app.TransferLink{
		{Row: 0, Direction: "from", TornID: "25719", Amount: 1000, URL: "https://example.test/give?to=25719&money=1000"},
	}, nil
}

func (s *stubDeps) CompleteDelinquent(ctx context.Context, row int) error {
	s.completed = append(s.completed, row)
	return nil
}

func (s *stubDeps) ClearDelinquent(ctx context.Context, row int) error {
	s.cleared = append(s.cleared, row)
	return nil
}

type stubStats struct{}

func (stubStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "sweep_cycles": int64(3)}
}

func newTestServer(deps *stubDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, stubStats{}).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealthAndStatus(t *testing.T) {
	Convey("Given the command API", t, func() {
		srv := newTestServer(&stubDeps{})
		defer srv.Close()

		Convey("When hitting the keep-alive endpoint", func() {
			var body map[string]string
			code := getJSON(t, srv.URL+"/healthz", &body)

			Convey("Then it reports alive", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(body["status"], ShouldEqual, "alive")
			})
		})

		Convey("When asking for faction status", func() {
			var body map[string]any
			code := getJSON(t, srv.URL+"/status", &body)

			Convey("Then name and scope are returned", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(body["faction"], ShouldEqual, "Night Shift")
				So(body["scope"], ShouldEqual, 4)
			})
		})
	})
}

func TestBalanceEndpoints(t *testing.T) {
	Convey("Given the command API", t, func() {
		srv := newTestServer(&stubDeps{})
		defer srv.Close()

		Convey("When fetching a known member's balance", func() {
			var body map[string]any
			code := getJSON(t, srv.URL+"/balance?member=%5B25719%5D", &body)

			Convey("Then the balance is returned", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(body["username"], ShouldEqual, "shandurai")
				So(body["money"], ShouldEqual, 1_500_000)
			})
		})

		Convey("When the member parameter is missing", func() {
			code := getJSON(t, srv.URL+"/balance", nil)

			Convey("Then the request is rejected", func() {
				So(code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the member is unknown", func() {
			var body map[string]string
			code := getJSON(t, srv.URL+"/balance?member=%5B999%5D", &body)

			Convey("Then a not-found error comes back", func() {
				So(code, ShouldEqual, http.StatusNotFound)
				So(body["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When requesting a transfer within balance", func() {
			var body map[string]string
			code := postJSON(t, srv.URL+"/balance-request", `{"member":"[25719]","amount":600}`, &body)

			Convey("Then the transfer link comes back", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(body["link"], ShouldContainSubstring, "money=600")
			})
		})

		Convey("When requesting more than the balance", func() {
			var body map[string]string
			code := postJSON(t, srv.URL+"/balance-request", `{"member":"[25719]","amount":9000000}`, &body)

			Convey("Then the request is unprocessable", func() {
				So(code, ShouldEqual, http.StatusUnprocessableEntity)
				So(body["code"], ShouldEqual, "insufficient_balance")
			})
		})

		Convey("When posting a non-positive amount", func() {
			code := postJSON(t, srv.URL+"/balance-request", `{"member":"[25719]","amount":0}`, nil)

			Convey("Then validation rejects it before the service", func() {
				So(code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting malformed JSON", func() {
			code := postJSON(t, srv.URL+"/balance-request", `{"member":`, nil)

			Convey("Then the body is rejected", func() {
				So(code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestEligibilityEndpoint(t *testing.T) {
	Convey("Given the command API", t, func() {
		srv := newTestServer(&stubDeps{})
		defer srv.Close()

		Convey("When evaluating an eligible member", func() {
			var body map[string]any
			code := getJSON(t, srv.URL+"/eligibility/25719", &body)

			Convey("Then the tier suggestion is returned", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(body["eligible"], ShouldEqual, true)
				So(body["level"], ShouldEqual, 8)
				So(body["scope_cost"], ShouldEqual, 4)
			})
		})

		Convey("When evaluating an ineligible member", func() {
			var body map[string]any
			code := getJSON(t, srv.URL+"/eligibility/31001", &body)

			Convey("Then eligible is false and tier fields are omitted", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(body["eligible"], ShouldEqual, false)
				So(body, ShouldNotContainKey, "level")
			})
		})

		Convey("When the member is not on the sheet", func() {
			code := getJSON(t, srv.URL+"/eligibility/404404", nil)

			Convey("Then a not-found error comes back", func() {
				So(code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When no member id is given", func() {
			code := getJSON(t, srv.URL+"/eligibility/", nil)

			Convey("Then the request is rejected", func() {
				So(code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestAssignmentsEndpoint(t *testing.T) {
	Convey("Given the command API", t, func() {
		srv := newTestServer(&stubDeps{})
		defer srv.Close()

		Convey("When requesting the assignment report", func() {
			var body map[string]string
			code := getJSON(t, srv.URL+"/assignments", &body)

			Convey("Then the rendered report comes back", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(body["report"], ShouldContainSubstring, "Heist as Driver")
			})
		})
	})
}

func TestDelinquentsEndpoints(t *testing.T) {
	Convey("Given the command API", t, func() {
		deps := &stubDeps{}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When listing delinquents", func() {
			var links []app.TransferLink
			code := getJSON(t, srv.URL+"/delinquents", &links)

			Convey("Then the outstanding transfer links come back", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(links, ShouldHaveLength, 1)
				So(links[0].TornID, ShouldEqual, "25719")
			})
		})

		Convey("When completing a row", func() {
			var body map[string]any
			code := postJSON(t, srv.URL+"/delinquents/3/complete", "", &body)

			Convey("Then the action reaches the service", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(body["action"], ShouldEqual, "complete")
				So(deps.completed, ShouldResemble, []int{3})
			})
		})

		Convey("When clearing a row", func() {
			code := postJSON(t, srv.URL+"/delinquents/0/clear", "", nil)

			Convey("Then the clear reaches the service", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(deps.cleared, ShouldResemble, []int{0})
			})
		})

		Convey("When the row is not a number", func() {
			code := postJSON(t, srv.URL+"/delinquents/abc/complete", "", nil)

			Convey("Then the request is rejected", func() {
				So(code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the action is unknown", func() {
			code := postJSON(t, srv.URL+"/delinquents/0/destroy", "", nil)

			Convey("Then the request is rejected", func() {
				So(code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given the command API", t, func() {
		srv := newTestServer(&stubDeps{})
		defer srv.Close()

		Convey("When fetching stats", func() {
			var body map[string]any
			code := getJSON(t, srv.URL+"/stats", &body)

			Convey("Then the counters are exposed", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(body["started"], ShouldEqual, true)
				So(body["sweep_cycles"], ShouldEqual, 3)
			})
		})
	})
}

func TestMethodFiltering(t *testing.T) {
	Convey("Given the command API", t, func() {
		srv := newTestServer(&stubDeps{})
		defer srv.Close()

		Convey("When using the wrong verb on a command route", func() {
			code := postJSON(t, srv.URL+"/status", "", nil)

			Convey("Then the route behaves as absent", func() {
				So(code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
