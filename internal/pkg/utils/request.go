package utils

import (
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/constvars"
	"fisioflow-service/internal/pkg/dto/requests"
	"net"
	"net/http"
	"strconv"
	"strings"
)

func BuildQueryParams(r *http.Request) *requests.QueryParams {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}

	pageSize, err := strconv.Atoi(query.Get("page_size"))
	if err != nil || pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	return &requests.QueryParams{
		Page:     page,
		PageSize: pageSize,
		Start:    query.Get("start"),
		End:      query.Get("end"),
	}
}

func BuildAuditListQuery(r *http.Request) *requests.AuditListQuery {
	params := BuildQueryParams(r)
	query := r.URL.Query()

	return &requests.AuditListQuery{
		ActionType: query.Get("action_type"),
		EntityType: query.Get("entity_type"),
		UserID:     query.Get("user_id"),
		Start:      params.Start,
		End:        params.End,
		Page:       params.Page,
		PageSize:   params.PageSize,
	}
}

// ActorFromContext returns the authenticated actor placed in the request
// context by the auth middleware, or a zero actor for unauthenticated paths.
func ActorFromContext(r *http.Request) models.AuditActor {
	if actor, ok := r.Context().Value(constvars.CONTEXT_ACTOR_KEY).(models.AuditActor); ok {
		return actor
	}
	return models.AuditActor{}
}

// ClientIP prefers proxy headers over the raw remote address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get(constvars.HeaderXForwardedFor); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get(constvars.HeaderXRealIP); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
