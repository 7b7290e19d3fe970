// Package handler is the HTTP boundary of the storefront API. It routes API
// Gateway proxy events to the per-entity CRUD services and converts their
// results and errors into status codes and JSON bodies.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/shopfront/shopfront/pkg/crud"
	"github.com/shopfront/shopfront/pkg/entity"
	apperrors "github.com/shopfront/shopfront/pkg/errors"
	"github.com/shopfront/shopfront/pkg/store"
)

// API routes requests for every entity kind.
type API struct {
	services map[string]*crud.Service
	log      *zap.Logger
}

// New builds the API over a store, one CRUD service per entity.
func New(st store.Store, log *zap.Logger, opts ...crud.Option) *API {
	services := make(map[string]*crud.Service, len(entity.All))
	for _, desc := range entity.All {
		services[desc.Container] = crud.New(desc, st, log, opts...)
	}
	return &API{services: services, log: log}
}

// Handle dispatches one API Gateway proxy event. The route surface is the
// same five verbs for each entity: POST and GET on the collection, GET, PUT
// and DELETE on /{id}.
func (a *API) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	a.log.Info("handling request",
		zap.String("method", request.HTTPMethod),
		zap.String("path", request.Path))

	segments := strings.Split(strings.Trim(request.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return errorResponse(http.StatusNotFound, "Not found")
	}

	svc, ok := a.services[segments[0]]
	if !ok {
		return errorResponse(http.StatusNotFound, "Not found")
	}

	switch len(segments) {
	case 1:
		switch request.HTTPMethod {
		case http.MethodPost:
			return a.create(ctx, svc, request)
		case http.MethodGet:
			return a.list(ctx, svc, request)
		}
	case 2:
		id := segments[1]
		switch request.HTTPMethod {
		case http.MethodGet:
			return a.get(ctx, svc, id)
		case http.MethodPut:
			return a.update(ctx, svc, id, request)
		case http.MethodDelete:
			return a.delete(ctx, svc, id)
		}
	default:
		return errorResponse(http.StatusNotFound, "Not found")
	}
	return errorResponse(http.StatusMethodNotAllowed, "Method not allowed")
}

func (a *API) create(ctx context.Context, svc *crud.Service, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	desc := svc.Descriptor()
	var payload entity.Document
	if err := json.Unmarshal([]byte(request.Body), &payload); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request body")
	}

	doc, err := svc.Create(ctx, payload)
	if err != nil {
		return a.failure("create", desc, err)
	}
	return jsonResponse(http.StatusCreated, map[string]any{
		"message": desc.Label + " created",
		desc.Kind: doc,
	})
}

func (a *API) list(ctx context.Context, svc *crud.Service, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	docs, err := svc.List(ctx, request.QueryStringParameters)
	if err != nil {
		return a.failure("fetch", svc.Descriptor(), err)
	}
	if docs == nil {
		docs = []entity.Document{}
	}
	return jsonResponse(http.StatusOK, docs)
}

func (a *API) get(ctx context.Context, svc *crud.Service, id string) (events.APIGatewayProxyResponse, error) {
	doc, err := svc.Get(ctx, id)
	if err != nil {
		return a.failure("fetch", svc.Descriptor(), err)
	}
	return jsonResponse(http.StatusOK, doc)
}

func (a *API) update(ctx context.Context, svc *crud.Service, id string, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	desc := svc.Descriptor()
	var partial entity.Document
	if err := json.Unmarshal([]byte(request.Body), &partial); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request body")
	}

	doc, err := svc.Update(ctx, id, partial)
	if err != nil {
		return a.failure("update", desc, err)
	}
	return jsonResponse(http.StatusOK, map[string]any{
		"message": desc.Label + " " + id + " updated",
		desc.Kind: doc,
	})
}

func (a *API) delete(ctx context.Context, svc *crud.Service, id string) (events.APIGatewayProxyResponse, error) {
	if err := svc.Delete(ctx, id); err != nil {
		return a.failure("delete", svc.Descriptor(), err)
	}
	return noContentResponse()
}

// failure maps a core error onto the HTTP taxonomy: validation 400, not
// found 404, uniqueness conflict 409 with the existing document, anything
// else a logged 500 with the underlying message surfaced.
func (a *API) failure(op string, desc entity.Descriptor, err error) (events.APIGatewayProxyResponse, error) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return errorResponse(http.StatusBadRequest, verr.Message)
	}

	var cerr *apperrors.ConflictError
	if errors.As(err, &cerr) {
		return jsonResponse(http.StatusConflict, map[string]any{
			"message": desc.Label + " already exists",
			desc.Kind: cerr.Existing,
		})
	}

	if apperrors.IsConflict(err) {
		return errorResponse(http.StatusConflict, desc.Label+" already exists")
	}

	if apperrors.IsNotFound(err) {
		return errorResponse(http.StatusNotFound, desc.Label+" not found")
	}

	a.log.Error("request failed",
		zap.String("op", op),
		zap.String("kind", desc.Kind),
		zap.Error(err))
	return jsonResponse(http.StatusInternalServerError, map[string]any{
		"message": "Failed to " + op + " " + desc.Kind,
		"error":   err.Error(),
	})
}
