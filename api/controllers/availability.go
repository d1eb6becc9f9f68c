package controllers

import (
	"net/http"

	"github.com/angelmondragon/delivery-scheduler-backend/api/responses"
	"github.com/angelmondragon/delivery-scheduler-backend/api/validators"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/availability"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/delivery-scheduler-backend/pkg/errors"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
)

type availabilityRequest struct {
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	DeliveryType string `json:"deliveryType" validate:"required,oneof=standard express collection"`
	// DeliveryAreaID is sent by the widget but timeslots do not vary by area.
	DeliveryAreaID int64  `json:"deliveryAreaId,omitempty" validate:"omitempty,min=1"`
	ProductName    string `json:"productName,omitempty"`
	CollectionName string `json:"collectionName,omitempty"`
	ShopDomain     string `json:"shopDomain,omitempty"`
}

type availabilityRangeRequest struct {
	StartDate      string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate        string `json:"endDate" validate:"required,datetime=2006-01-02"`
	DeliveryType   string `json:"deliveryType" validate:"required,oneof=standard express collection"`
	ProductName    string `json:"productName,omitempty"`
	CollectionName string `json:"collectionName,omitempty"`
	ShopDomain     string `json:"shopDomain,omitempty"`
}

type reserveSlotRequest struct {
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	DeliveryType string `json:"deliveryType" validate:"required,oneof=standard express collection"`
	TimeslotID   int64  `json:"timeslotId" validate:"required,min=1"`
}

type availabilityResponse struct {
	Date               string                     `json:"date"`
	Available          bool                       `json:"available"`
	ReasonCode         string                     `json:"reasonCode,omitempty"`
	Reason             string                     `json:"reason,omitempty"`
	AvailableTimeslots []availability.TimeslotDTO `json:"availableTimeslots"`
}

// AvailabilityForDate returns the bookable timeslots for one date, with a
// blocking reason when the day is closed.
func AvailabilityForDate(calendar *availability.Calendar, engine *availability.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req availabilityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if req.ShopDomain != "" {
			ctx = logg.WithShopDomain(ctx, req.ShopDomain)
		}

		deliveryType := enums.DeliveryType(req.DeliveryType)
		reason, err := calendar.DateBlockingReason(ctx, availability.DateQuery{
			Date:           req.Date,
			DeliveryType:   deliveryType,
			ProductName:    req.ProductName,
			CollectionName: req.CollectionName,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp := availabilityResponse{
			Date:               req.Date,
			Available:          reason == nil,
			AvailableTimeslots: []availability.TimeslotDTO{},
		}
		if reason != nil {
			resp.ReasonCode = reason.Code
			resp.Reason = reason.Message
			responses.WriteSuccess(w, resp)
			return
		}

		slots, err := engine.GetAvailableTimeslots(ctx, req.Date, deliveryType)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		resp.AvailableTimeslots = slots
		responses.WriteSuccess(w, resp)
	}
}

// AvailabilityRange lists the bookable dates inside an inclusive range.
func AvailabilityRange(calendar *availability.Calendar, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req availabilityRangeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if req.ShopDomain != "" {
			ctx = logg.WithShopDomain(ctx, req.ShopDomain)
		}

		dates, err := calendar.AvailableDatesInRange(ctx, req.StartDate, req.EndDate, availability.DateQuery{
			DeliveryType:   enums.DeliveryType(req.DeliveryType),
			ProductName:    req.ProductName,
			CollectionName: req.CollectionName,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"startDate":      req.StartDate,
			"endDate":        req.EndDate,
			"availableDates": dates,
		})
	}
}

// SlotReserve claims one unit of a timeslot's quota at commit time.
func SlotReserve(engine *availability.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reserveSlotRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := engine.ReserveSlot(r.Context(), req.Date, enums.DeliveryType(req.DeliveryType), req.TimeslotID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"reserved": true, "date": req.Date, "timeslotId": req.TimeslotID})
	}
}

// SlotRelease returns a claimed unit after a cancellation.
func SlotRelease(engine *availability.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reserveSlotRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := engine.ReleaseSlot(r.Context(), req.Date, enums.DeliveryType(req.DeliveryType), req.TimeslotID); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release slot"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"released": true, "date": req.Date, "timeslotId": req.TimeslotID})
	}
}
