package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	// HouseholdHeader carries the tenant scope for every API request.
	// Identity and authentication are handled upstream; this service only
	// needs the resolved household.
	HouseholdHeader = "X-Household-ID"

	// HouseholdIDKey is the context key for the resolved household ID
	HouseholdIDKey = "household_id"
)

// HouseholdScope returns a middleware that resolves the household ID from
// the request header and stores it on the context. Requests without a
// usable header proceed with ID 0; handlers reject those.
func HouseholdScope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(HouseholdHeader)
			if header != "" {
				if id, err := strconv.ParseInt(header, 10, 32); err == nil && id > 0 {
					c.Set(HouseholdIDKey, int32(id))
				}
			}
			return next(c)
		}
	}
}

// GetHouseholdID returns the household ID stored on the context, or 0 when
// the request carried no valid scope.
func GetHouseholdID(c echo.Context) int32 {
	if id, ok := c.Get(HouseholdIDKey).(int32); ok {
		return id
	}
	return 0
}
