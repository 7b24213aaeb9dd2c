package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"studio/internal/adapters/http/middleware"
	"studio/internal/application/orchestrators"
	"studio/internal/application/projections"
	"studio/internal/domain/calendar"
)

// createItemRequest is the JSON body for POST /api/calendar/items.
type createItemRequest struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	EndDate     string   `json:"endDate"`
	Time        string   `json:"time"`
	EndTime     string   `json:"endTime"`
	Location    string   `json:"location"`
	AssignedTo  []string `json:"assignedTo"`
	Recurrence  string   `json:"recurrence"`
}

// quickAddRequest is the JSON body for POST /api/calendar/quick.
type quickAddRequest struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// creatableResponse lists what the caller may create.
type creatableResponse struct {
	Role     string                       `json:"role"`
	Types    []projections.CategoryOption `json:"types"`
	Advisory string                       `json:"advisory,omitempty"`
}

// viewQuery reads view, date and hide from the URL. A bad date falls back to today.
func viewQuery(r *http.Request, sess middleware.Session) projections.GetCalendarViewQuery {
	q := r.URL.Query()
	now := studioNow()
	pivot := calendar.Today(now)
	if d, err := calendar.ParseDate(q.Get("date")); err == nil {
		pivot = d
	}
	return projections.GetCalendarViewQuery{
		Granularity: calendar.ParseGranularity(q.Get("view")),
		Pivot:       pivot,
		Now:         now,
		Hidden:      projections.ParseHideParam(q.Get("hide")),
		Role:        sess.Role,
	}
}

func createDeps() orchestrators.CreateCalendarItemDeps {
	return orchestrators.CreateCalendarItemDeps{
		Store:      stores.CalendarStore,
		GenerateID: generateID,
		Now:        timeNow,
		Notifier:   approvalNotifier,
	}
}

// isValidationError reports whether err came from item validation or gating.
func isValidationError(err error) bool {
	for _, target := range []error{
		calendar.ErrRejected, calendar.ErrUnknownType, calendar.ErrInvalidDate,
		calendar.ErrInvalidTime, calendar.ErrInvalidRange, calendar.ErrTooLong,
		calendar.ErrInvalidRecurrence, calendar.ErrTypeNotPermitted,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeCreateError maps creation failures to API responses.
func writeCreateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calendar.ErrTypeNotPermitted):
		http.Error(w, err.Error(), http.StatusForbidden)
	case isValidationError(err), errors.Is(err, orchestrators.ErrNoDateFound):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		internalError(w, err)
	}
}

// handleCalendarPage handles GET /calendar
func handleCalendarPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	view, err := projections.QueryGetCalendarView(r.Context(), viewQuery(r, sess), projections.GetCalendarViewDeps{
		Store: stores.CalendarStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "calendar.html", map[string]any{
		"View":    view,
		"Session": sess,
	})
}

// handleCalendarItemsForm handles POST /calendar/items from the HTML form.
// Rejected submissions redirect back without a message.
func handleCalendarItemsForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	var assigned []string
	for _, a := range strings.Split(r.FormValue("assignedTo"), ",") {
		if a = strings.TrimSpace(a); a != "" {
			assigned = append(assigned, a)
		}
	}
	input := orchestrators.CreateCalendarItemInput{
		Type:        calendar.Category(r.FormValue("type")),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Date:        r.FormValue("date"),
		EndDate:     r.FormValue("endDate"),
		Time:        r.FormValue("time"),
		EndTime:     r.FormValue("endTime"),
		Location:    r.FormValue("location"),
		AssignedTo:  assigned,
		Recurrence:  r.FormValue("recurrence"),
		CallerID:    sess.Name,
		CallerRole:  sess.Role,
	}

	view := calendar.ParseGranularity(r.FormValue("view"))
	back := string(calendarURL(view, r.FormValue("pivot"), r.FormValue("hide")))

	item, err := orchestrators.ExecuteCreateCalendarItem(r.Context(), input, createDeps())
	if err != nil {
		if isValidationError(err) {
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}
		internalError(w, err)
		return
	}
	http.Redirect(w, r, string(calendarURL(view, item.Date, r.FormValue("hide"))), http.StatusSeeOther)
}

// handleCalendarItemsAPI handles GET (list) and POST (create) for /api/calendar/items
func handleCalendarItemsAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	switch r.Method {
	case "GET":
		q := r.URL.Query()
		from, to := q.Get("from"), q.Get("to")
		var items []calendar.Item
		var err error
		switch {
		case from == "" && to == "":
			items, err = stores.CalendarStore.List(ctx)
		case !calendar.IsDate(from) || !calendar.IsDate(to) || to < from:
			http.Error(w, "from and to must be YYYY-MM-DD with from <= to", http.StatusBadRequest)
			return
		default:
			items, err = stores.CalendarStore.ListOverlapping(ctx, from, to)
			if err == nil {
				items = calendar.ExpandRecurring(items, from, to)
			}
		}
		if err != nil {
			internalError(w, err)
			return
		}
		items = calendar.Visible(items, calendar.NewFilter().Hide(projections.ParseHideParam(q.Get("hide"))...))
		if items == nil {
			items = []calendar.Item{}
		}
		writeJSON(w, http.StatusOK, items)

	case "POST":
		var req createItemRequest
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		item, err := orchestrators.ExecuteCreateCalendarItem(ctx, orchestrators.CreateCalendarItemInput{
			Type:        calendar.Category(req.Type),
			Title:       req.Title,
			Description: req.Description,
			Date:        req.Date,
			EndDate:     req.EndDate,
			Time:        req.Time,
			EndTime:     req.EndTime,
			Location:    req.Location,
			AssignedTo:  req.AssignedTo,
			Recurrence:  req.Recurrence,
			CallerID:    sess.Name,
			CallerRole:  sess.Role,
		}, createDeps())
		if err != nil {
			writeCreateError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleCalendarQuickAdd handles POST /api/calendar/quick
func handleCalendarQuickAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	var req quickAddRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	input, err := orchestrators.ParseQuickAdd(req.Text, studioNow())
	if err != nil {
		writeCreateError(w, err)
		return
	}
	input.Type = calendar.Category(req.Type)
	input.CallerID = sess.Name
	input.CallerRole = sess.Role

	item, err := orchestrators.ExecuteCreateCalendarItem(r.Context(), input, createDeps())
	if err != nil {
		writeCreateError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// handleCalendarViewAPI handles GET /api/calendar/view
func handleCalendarViewAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	view, err := projections.QueryGetCalendarView(r.Context(), viewQuery(r, sess), projections.GetCalendarViewDeps{
		Store: stores.CalendarStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleCalendarCreatable handles GET /api/calendar/creatable
func handleCalendarCreatable(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	resp := creatableResponse{Role: sess.Role, Types: projections.CreatableOptions(sess.Role)}
	if sess.Role != calendar.RoleStudio {
		resp.Advisory = calendar.VacationAdvisory
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCalendarICS handles GET /calendar.ics
func handleCalendarICS(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if (from != "" && !calendar.IsDate(from)) || (to != "" && !calendar.IsDate(to)) {
		http.Error(w, "from and to must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	res, err := projections.QueryExportCalendarICS(r.Context(), projections.ExportCalendarICSQuery{
		From:     from,
		To:       to,
		Hidden:   projections.ParseHideParam(q.Get("hide")),
		Location: studioLocation,
		Now:      timeNow().UTC().Truncate(time.Second),
	}, projections.ExportCalendarICSDeps{Store: stores.CalendarStore})
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="studio.ics"`)
	w.Write([]byte(res.Body))
}
