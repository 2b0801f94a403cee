//go:build unit

package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"fio-market/internal/domain/reservation"
	"fio-market/internal/handler/api"
	"fio-market/internal/pkg/errs"
	"fio-market/internal/usecase/commands"
	"fio-market/internal/usecase/queries"
	"fio-market/internal/usecase/shared"
	"fio-market/tests/common/builder"
	"fio-market/tests/common/httptest"
	commandsmock "fio-market/tests/mock/commands"
	queriesmock "fio-market/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.ReservationHandler
	identity     shared.Identity
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockQueries)
	s.identity = shared.Identity{UserID: uuid.New(), Roles: []string{"member"}}

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("identity", s.identity)
		c.Next()
	}

	s.router.POST("/reservations", authMiddleware, s.handler.CreateReservation)
	s.router.GET("/reservations", authMiddleware, s.handler.ListMyReservations)
	s.router.GET("/reservations/:id", authMiddleware, s.handler.GetReservation)
	s.router.PATCH("/reservations/:id/status", authMiddleware, s.handler.UpdateReservationStatus)
	s.router.DELETE("/reservations/:id", authMiddleware, s.handler.DeleteReservation)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) errorMessage(body []byte) string {
	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	s.Require().NoError(json.Unmarshal(body, &resp))
	return resp.Error.Message
}

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	reqBody := builder.NewReservationBuilder().BuildCreateRequestDTO()
	details := builder.NewReservationBuilder().BuildDetails()

	s.Run("created", func() {
		s.mockCommands.EXPECT().
			CreateReservation(gomock.Any(), s.identity, gomock.Any()).
			Return(details, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations", reqBody, "token")
		s.Equal(http.StatusCreated, w.Code)

		var got queries.ReservationWithDetails
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
		s.Equal(details.ID, got.ID)
		s.Equal(details.Commodity, got.Commodity)
	})

	s.Run("unauthorized without token", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations", reqBody, "")
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("invalid body", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations", map[string]any{"order_kind": "swap"}, "token")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("self dealing rejected", func() {
		s.mockCommands.EXPECT().
			CreateReservation(gomock.Any(), s.identity, gomock.Any()).
			Return(nil, errs.Mark(reservation.ErrSelfSellReservation, shared.ErrBadRequest))

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations", reqBody, "token")
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("You cannot create a reservation against your own sell order", s.errorMessage(w.Body.Bytes()))
	})

	s.Run("order not found", func() {
		s.mockCommands.EXPECT().
			CreateReservation(gomock.Any(), s.identity, gomock.Any()).
			Return(nil, commands.ErrOrderNotFound)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations", reqBody, "token")
		s.Equal(http.StatusNotFound, w.Code)
		s.Equal("Order not found", s.errorMessage(w.Body.Bytes()))
	})
}

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	details := builder.NewReservationBuilder().BuildDetails()

	s.Run("found", func() {
		s.mockQueries.EXPECT().
			GetReservation(gomock.Any(), s.identity, int64(1)).
			Return(details, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/1", nil, "token")
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("invalid id", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/abc", nil, "token")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("not found for outsiders", func() {
		s.mockQueries.EXPECT().
			GetReservation(gomock.Any(), s.identity, int64(7)).
			Return(nil, queries.ErrReservationNotFound)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/7", nil, "token")
		s.Equal(http.StatusNotFound, w.Code)
		s.Equal("Reservation not found", s.errorMessage(w.Body.Bytes()))
	})
}

func (s *ReservationHandlerTestSuite) TestUpdateReservationStatus() {
	details := builder.NewReservationBuilder().
		With(func(b *builder.ReservationBuilder) { b.Status = reservation.StatusConfirmed }).
		BuildDetails()

	s.Run("confirmed", func() {
		s.mockCommands.EXPECT().
			TransitionReservation(gomock.Any(), s.identity, int64(1), reservation.StatusConfirmed, gomock.Nil()).
			Return(details, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/reservations/1/status",
			map[string]any{"status": "confirmed"}, "token")
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("forbidden transition", func() {
		s.mockCommands.EXPECT().
			TransitionReservation(gomock.Any(), s.identity, int64(1), reservation.StatusConfirmed, gomock.Nil()).
			Return(nil, errs.Mark(reservation.ErrNotOrderOwner, shared.ErrForbidden))

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/reservations/1/status",
			map[string]any{"status": "confirmed"}, "token")
		s.Equal(http.StatusForbidden, w.Code)
		s.Equal("Only the order owner can perform this action", s.errorMessage(w.Body.Bytes()))
	})

	s.Run("invalid transition", func() {
		s.mockCommands.EXPECT().
			TransitionReservation(gomock.Any(), s.identity, int64(1), reservation.StatusFulfilled, gomock.Nil()).
			Return(nil, errs.Mark(errs.Newf("Cannot transition from '%s' to '%s'", reservation.StatusPending, reservation.StatusFulfilled), shared.ErrBadRequest))

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/reservations/1/status",
			map[string]any{"status": "fulfilled"}, "token")
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("Cannot transition from 'pending' to 'fulfilled'", s.errorMessage(w.Body.Bytes()))
	})

	s.Run("missing status", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/reservations/1/status",
			map[string]any{}, "token")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestDeleteReservation() {
	s.Run("deleted", func() {
		s.mockCommands.EXPECT().
			DeleteReservation(gomock.Any(), s.identity, int64(1)).
			Return(nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/reservations/1", nil, "token")
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("only pending can be deleted", func() {
		s.mockCommands.EXPECT().
			DeleteReservation(gomock.Any(), s.identity, int64(1)).
			Return(errs.Mark(reservation.ErrStatusNotPending, shared.ErrBadRequest))

		w := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/reservations/1", nil, "token")
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("Only pending reservations can be deleted", s.errorMessage(w.Body.Bytes()))
	})
}

func (s *ReservationHandlerTestSuite) TestListMyReservations() {
	list := []*queries.ReservationWithDetails{builder.NewReservationBuilder().BuildDetails()}

	s.mockQueries.EXPECT().
		ListMyReservations(gomock.Any(), s.identity).
		Return(list, nil)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations", nil, "token")
	s.Equal(http.StatusOK, w.Code)

	var got []*queries.ReservationWithDetails
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Len(got, 1)
}
