/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the store with realistic data
  for demos. Each scenario creates employees, sets entitlements, grants comp
  credit and submits requests through the leave service, so every number
  shown afterwards was produced by the real rules.

AVAILABLE SCENARIOS:
  comp-first:       Comp credit drawn in whole days, half-day fragment kept
  negative-annual:  Request larger than the entitlement, balance goes negative
  team-holiday:     Bulk comp grant for a team that worked a holiday

HOW SCENARIOS WORK:
  1. Reset store (clear all data)
  2. Create employees
  3. Set entitlements
  4. Grant comp credit
  5. Submit requests

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "comp-first"}

ADDING NEW SCENARIOS:
  1. Add to 'scenarios' slice with ID, name, description
  2. Create loader function: loadXxxScenario(ctx)
  3. Add it to the loaders map

NOTE:
  Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: HTTP handlers
  - leave/service.go: Operations the loaders call
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-ledger/leave"
)

// ScenarioYear is the year all demo data is written to.
const ScenarioYear = 2026

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "comp-first",
		Name:        "Comp First",
		Description: "Three half-day comp grants; a 2-day request draws 1 comp day, a half day leaves the 0.5 fragment untouched",
	},
	{
		ID:          "negative-annual",
		Name:        "Negative Annual Balance",
		Description: "15 base days, -2 carry-over, a 20-day request is accepted and leaves -7",
	},
	{
		ID:          "team-holiday",
		Name:        "Team Holiday Shift",
		Description: "Three employees worked a public holiday and receive one comp day each in a single bulk grant",
	},
}

func (h *Handler) scenarioLoaders() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"comp-first":      h.loadCompFirstScenario,
		"negative-annual": h.loadNegativeAnnualScenario,
		"team-holiday":    h.loadTeamHolidayScenario,
	}
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the store and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	load, ok := h.scenarioLoaders()[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	h.currentScenario = ""
	if err := h.Store.Reset(ctx); err != nil {
		h.writeServiceError(w, "Failed to reset store", err)
		return
	}
	if err := load(ctx); err != nil {
		h.writeServiceError(w, fmt.Sprintf("Failed to load scenario %s", req.ScenarioID), err)
		return
	}
	h.currentScenario = req.ScenarioID

	h.Logger.Info("scenario loaded", "scenario", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadCompFirstScenario(ctx context.Context) error {
	emp, err := h.Service.CreateEmployee(ctx, "Kim Minji", "900101")
	if err != nil {
		return err
	}
	if _, err := h.Service.SetEntitlement(ctx, emp.ID, ScenarioYear, decimal.NewFromInt(15), decimal.Zero); err != nil {
		return err
	}

	half := decimal.RequireFromString("0.5")
	for _, worked := range []time.Time{
		leave.Date(ScenarioYear, time.January, 1),
		leave.Date(ScenarioYear, time.February, 17),
		leave.Date(ScenarioYear, time.March, 1),
	} {
		if _, err := h.Service.GrantComp(ctx, emp.ID, leave.GrantInput{
			WorkedDate: worked,
			Label:      "Holiday shift",
			Amount:     half,
		}); err != nil {
			return err
		}
	}

	if _, err := h.Service.Submit(ctx, leave.Submission{
		EmployeeID: emp.ID,
		Type:       leave.TypeAnnual,
		Start:      leave.Date(ScenarioYear, time.March, 10),
		End:        leave.Date(ScenarioYear, time.March, 11),
		Reason:     "Family trip",
	}); err != nil {
		return err
	}
	_, err = h.Service.Submit(ctx, leave.Submission{
		EmployeeID: emp.ID,
		Type:       leave.TypeHalf,
		Start:      leave.Date(ScenarioYear, time.April, 2),
		HalfDay:    leave.HalfDayAM,
		Reason:     "Doctor",
	})
	return err
}

func (h *Handler) loadNegativeAnnualScenario(ctx context.Context) error {
	emp, err := h.Service.CreateEmployee(ctx, "Park Jisoo", "880315")
	if err != nil {
		return err
	}
	if _, err := h.Service.SetEntitlement(ctx, emp.ID, ScenarioYear, decimal.NewFromInt(15), decimal.NewFromInt(-2)); err != nil {
		return err
	}
	_, err = h.Service.Submit(ctx, leave.Submission{
		EmployeeID: emp.ID,
		Type:       leave.TypeAnnual,
		Start:      leave.Date(ScenarioYear, time.June, 1),
		End:        leave.Date(ScenarioYear, time.June, 20),
		Reason:     "Sabbatical",
	})
	return err
}

func (h *Handler) loadTeamHolidayScenario(ctx context.Context) error {
	team := []struct{ name, birth string }{
		{"Choi Yuna", "920704"},
		{"Jung Hoon", "870221"},
		{"Lee Seojun", "950930"},
	}
	ids := make([]leave.EmployeeID, 0, len(team))
	for _, m := range team {
		emp, err := h.Service.CreateEmployee(ctx, m.name, m.birth)
		if err != nil {
			return err
		}
		if _, err := h.Service.SetEntitlement(ctx, emp.ID, ScenarioYear, decimal.NewFromInt(15), decimal.Zero); err != nil {
			return err
		}
		ids = append(ids, emp.ID)
	}

	if _, err := h.Service.BulkGrant(ctx, ids, leave.GrantInput{
		WorkedDate: leave.Date(ScenarioYear, time.September, 25),
		Label:      "Chuseok on-call",
		Amount:     decimal.NewFromInt(1),
	}); err != nil {
		return err
	}

	_, err := h.Service.Submit(ctx, leave.Submission{
		EmployeeID: ids[0],
		Type:       leave.TypeAnnual,
		Start:      leave.Date(ScenarioYear, time.October, 5),
		End:        leave.Date(ScenarioYear, time.October, 6),
	})
	return err
}
