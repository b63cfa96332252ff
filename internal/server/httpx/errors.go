// Package httpx holds the JSON response helpers shared by every gin handler.
package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	devicedomain "sms-gateway/backend/internal/device/domain"
	entrydomain "sms-gateway/backend/internal/entry/domain"
	identity "sms-gateway/backend/internal/identity/service"
	messagedomain "sms-gateway/backend/internal/message/domain"
	outbounddomain "sms-gateway/backend/internal/outbound/domain"
	userdomain "sms-gateway/backend/internal/user/domain"
)

// InternalErrorMessage is the body sent for every unexpected failure.
const InternalErrorMessage = "Internal Server Error"

var statusFor = []struct {
	err    error
	status int
}{
	{userdomain.ErrUsernameTaken, http.StatusBadRequest},
	{userdomain.ErrMissingFields, http.StatusBadRequest},
	{userdomain.ErrNotFound, http.StatusNotFound},
	{userdomain.ErrInvalidDate, http.StatusBadRequest},
	{identity.ErrInvalidCredentials, http.StatusUnauthorized},
	{identity.ErrSubscriptionExpired, http.StatusForbidden},
	{identity.ErrOldPasswordIncorrect, http.StatusBadRequest},
	{identity.ErrPasswordRequired, http.StatusBadRequest},
	{identity.ErrPhoneRequired, http.StatusBadRequest},
	{devicedomain.ErrDeviceIDRequired, http.StatusBadRequest},
	{devicedomain.ErrNotFound, http.StatusNotFound},
	{outbounddomain.ErrMissingFields, http.StatusBadRequest},
	{entrydomain.ErrKeyRequired, http.StatusBadRequest},
}

// StatusFor maps a service error to its HTTP status. Unknown errors are 500.
func StatusFor(err error) int {
	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	var missing *messagedomain.ErrMissingField
	if errors.As(err, &missing) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error writes err as {"error": ...}. Known errors carry their own message; anything else is
// logged with the route and answered with a generic 500.
func Error(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"route":  c.FullPath(),
		}).Error("http: request failed")
		Abort(c, status, InternalErrorMessage)
		return
	}
	Abort(c, status, err.Error())
}

// Abort stops the chain and writes {"error": msg}.
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// Message writes {"message": msg}.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// BadRequest answers 400 for undecodable bodies.
func BadRequest(c *gin.Context) {
	Abort(c, http.StatusBadRequest, "Invalid request body")
}
