package admin

import (
	stderrors "errors"
	"net/http"

	"codeberg.org/olkkari/server/api/rest/pagination"
	"codeberg.org/olkkari/server/internal/auth"
	"codeberg.org/olkkari/server/internal/errors"
	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/internal/logger"
	ws "codeberg.org/olkkari/server/internal/websocket"
	"codeberg.org/olkkari/server/olkkari/bookings"
	"github.com/gin-gonic/gin"
)

// ListBookings godoc
// @Summary List all bookings (host)
// @Tags admin
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset"
// @Success 200 {object} BookingsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/admin/bookings [get]
// @Security BearerAuth
func ListBookings(store BookingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := pagination.FromQuery(c, 50, 200)

		list, err := store.ListAll(c.Request.Context(), params.Limit, params.Offset)
		if err != nil {
			errors.InternalError(c, "failed to list bookings", err)
			return
		}

		if list == nil {
			list = []bookings.Booking{}
		}

		c.JSON(http.StatusOK, BookingsResponse{
			Bookings:   list,
			Pagination: pagination.NewMeta(params, len(list)),
		})
	}
}

// UpdateBookingStatus godoc
// @Summary Confirm or cancel a booking (host)
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body bookings.UpdateStatusRequest true "New status"
// @Success 200 {object} bookings.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/admin/bookings/{id}/status [put]
// @Security BearerAuth
func UpdateBookingStatus(store BookingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		var req bookings.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		booking, err := store.UpdateStatus(c.Request.Context(), bookingID, req.Status)
		if stderrors.Is(err, bookings.ErrBookingNotFound) {
			errors.NotFound(c, "booking")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to update booking", err)
			return
		}

		c.JSON(http.StatusOK, booking)
	}
}

// ListMembers godoc
// @Summary List members (host)
// @Description Lists members awaiting approval by default; status=all lists everyone
// @Tags admin
// @Produce json
// @Param status query string false "pending or all" default(pending)
// @Success 200 {object} MembersResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/admin/members [get]
// @Security BearerAuth
func ListMembers(store MemberStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			members []identity.Profile
			err     error
		)

		switch c.DefaultQuery("status", "pending") {
		case "pending":
			members, err = store.ListPending(c.Request.Context())
		case "all":
			members, err = store.ListAll(c.Request.Context())
		default:
			errors.BadRequest(c, "status must be pending or all", nil)
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to list members", err)
			return
		}

		if members == nil {
			members = []identity.Profile{}
		}

		c.JSON(http.StatusOK, MembersResponse{Members: members})
	}
}

// ApproveMember godoc
// @Summary Approve a member (host)
// @Description Marks the profile approved and emails the member. A failed email does not undo the approval.
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} ApproveResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/admin/members/{id}/approve [post]
// @Security BearerAuth
func ApproveMember(store MemberStore, mail Mailer, events Events) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		profile, err := store.Approve(c.Request.Context(), userID)
		if stderrors.Is(err, identity.ErrProfileNotFound) {
			errors.NotFound(c, "member")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to approve member", err)
			return
		}

		notified := false
		if mail != nil && profile.Email != "" {
			if err := mail.SendApproval(c.Request.Context(), profile.Email, profile.FullName); err != nil {
				logger.WarnErr(err, "failed to send approval email", "user_id", userID)
			} else {
				notified = true
			}
		}

		logger.Info("member approved", "user_id", userID, "notified", notified)

		if events != nil {
			approver, _ := auth.GetUserID(c)
			events.Publish(ws.TypeMemberApproved, ws.MemberApprovedPayload{
				UserID:     profile.ID,
				FullName:   profile.FullName,
				ApprovedBy: approver,
			})
		}

		c.JSON(http.StatusOK, ApproveResponse{Profile: profile, Notified: notified})
	}
}

// SendEmail godoc
// @Summary Send a branded email (host)
// @Tags admin
// @Accept json
// @Produce json
// @Param request body SendEmailRequest true "Email"
// @Success 200 {object} SendEmailResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/admin/email [post]
// @Security BearerAuth
func SendEmail(mail Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		if err := mail.SendBranded(c.Request.Context(), req.To, req.Subject, req.HTML, req.Name); err != nil {
			errors.ServiceUnavailable(c, "", "failed to send email", err)
			return
		}

		c.JSON(http.StatusOK, SendEmailResponse{Success: true, Provider: mail.Provider()})
	}
}

// SyncWebsite godoc
// @Summary Refresh knowledge from the public website (host)
// @Description Fetches the site, extracts its summary, title and phone number, and upserts them into the concierge knowledge base
// @Tags admin
// @Accept json
// @Produce json
// @Param request body SyncWebsiteRequest false "Override url or dry run"
// @Success 200 {object} sitesync.Result
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/admin/sync-website [post]
// @Security BearerAuth
func SyncWebsite(syncer SiteSyncer, defaultURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SyncWebsiteRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				errors.ValidationError(c, err)
				return
			}
		}

		url := req.URL
		if url == "" {
			url = defaultURL
		}

		result, err := syncer.Sync(c.Request.Context(), url, req.DryRun)
		if err != nil {
			errors.ServiceUnavailable(c, "", "website sync failed", err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
