package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	app := fiber.New()
	var from, to *time.Time
	var rangeErr error
	app.Get("/", func(c *fiber.Ctx) error {
		from, to, rangeErr = parseDateRange(c)
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/?from=2024-05-01&to=2024-05-10", nil))
	require.NoError(t, err)
	require.NoError(t, rangeErr)
	require.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *from)
	require.Equal(t, time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC), *to)

	_, err = app.Test(httptest.NewRequest("GET", "/?to=2024-05-10T08:00:00Z", nil))
	require.NoError(t, err)
	require.NoError(t, rangeErr)
	require.Nil(t, from)
	require.Equal(t, time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC), *to)

	_, err = app.Test(httptest.NewRequest("GET", "/?from=10-05-2024", nil))
	require.NoError(t, err)
	require.EqualError(t, rangeErr, "invalid from date")
}

func TestChainCopiesGuards(t *testing.T) {
	guard := func(c *fiber.Ctx) error { return c.Next() }
	first := func(c *fiber.Ctx) error { return nil }
	second := func(c *fiber.Ctx) error { return fiber.ErrTeapot }

	guards := make([]fiber.Handler, 1, 4)
	guards[0] = guard

	a := chain(guards, first)
	b := chain(guards, second)
	require.Len(t, a, 2)
	require.Len(t, b, 2)
	require.NoError(t, a[1](nil))
	require.ErrorIs(t, b[1](nil), fiber.ErrTeapot)
}
