package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitzterra/micro-hexapod/pkg/gait"
	"github.com/fitzterra/micro-hexapod/pkg/sensor"
	"github.com/fitzterra/micro-hexapod/pkg/servo"
)

func newTestServer(t *testing.T, finder sensor.RangeFinder) *Server {
	t.Helper()
	acts := [3]servo.Actuator{
		servo.NewSim(14, false),
		servo.NewSim(12, false),
		servo.NewSim(13, false),
	}
	hex, err := gait.New(gait.Config{
		Pins:         [3]int{14, 12, 13},
		Trim:         [3]int{0, 5, 0},
		MidAmplitude: 10,
		Stroke:       30,
		PeriodMS:     2000,
		SampleWindow: 20,
	}, acts, nil, finder)
	require.NoError(t, err)
	return NewServer("5000", hex)
}

func doJSON(t *testing.T, s *Server, method, path, body string, out any) int {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestGetParams(t *testing.T) {
	s := newTestServer(t, nil)

	var p gait.Params
	code := doJSON(t, s, "GET", "/get_params", "", &p)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, [3]int{14, 12, 13}, p.Pins)
	assert.Equal(t, 2000, p.Period)
	assert.Equal(t, [3]int{0, 5, 0}, p.Trim)
	assert.True(t, p.Paused)
}

func TestPauseRun(t *testing.T) {
	s := newTestServer(t, nil)

	var out map[string]bool
	code := doJSON(t, s, "POST", "/run", "", &out)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, out["paused"])
	assert.False(t, s.hex.Paused())

	code = doJSON(t, s, "POST", "/pause", "", &out)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, out["paused"])
	assert.True(t, s.hex.Paused())
}

func TestSpeedEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	var out map[string]int
	code := doJSON(t, s, "POST", "/speed", `{"speed": 100}`, &out)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 100, out["speed"])

	code = doJSON(t, s, "GET", "/speed", "", &out)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 100, out["speed"])

	var fail map[string][]string
	code = doJSON(t, s, "POST", "/speed", `{"speed": 101}`, &fail)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, fail["errors"])

	code = doJSON(t, s, "POST", "/speed", `{"pace": 50}`, &fail)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []string{"No 'speed' key in parameters."}, fail["errors"])
}

func TestStrokeEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	var out map[string]int
	code := doJSON(t, s, "POST", "/stroke", `{"stroke": 100}`, &out)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 100, out["stroke"])

	var fail map[string][]string
	code = doJSON(t, s, "POST", "/stroke", `{"stroke": -1}`, &fail)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, fail["errors"])
}

func TestSteerEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	var out struct {
		Dir   string `json:"dir"`
		Angle int    `json:"angle"`
	}
	code := doJSON(t, s, "POST", "/steer", `{"angle": 45}`, &out)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "fwd", out.Dir)
	assert.Equal(t, 45, out.Angle)

	// A direction change resets the angle
	code = doJSON(t, s, "POST", "/steer", `{"dir": "rotr"}`, &out)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "rotr", out.Dir)
	assert.Equal(t, 0, out.Angle)

	var fail map[string][]string
	code = doJSON(t, s, "POST", "/steer", `{"angle": 30}`, &fail)
	assert.Equal(t, http.StatusBadRequest, code, "angle while rotating must be rejected")

	code = doJSON(t, s, "POST", "/steer", `{}`, &fail)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []string{"At least one of 'dir' or 'angle' keys required."}, fail["errors"])

	code = doJSON(t, s, "POST", "/steer", `{"dir": "sideways"}`, &fail)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTrimEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	// Bare list form, as the original API took it
	var out [3]int
	code := doJSON(t, s, "POST", "/trim", `[1, 2, 3]`, &out)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, [3]int{1, 2, 3}, out)

	// Object form with a null entry leaves that leg alone
	code = doJSON(t, s, "POST", "/trim", `{"trim": [null, 7, null]}`, &out)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, [3]int{1, 7, 3}, out)

	code = doJSON(t, s, "GET", "/trim", "", &out)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, [3]int{1, 7, 3}, out)

	var fail map[string][]string
	code = doJSON(t, s, "POST", "/trim", `[99, 0, 0]`, &fail)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCenterEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.hex.SetPaused(false)

	code := doJSON(t, s, "POST", "/center_servos", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, s.hex.Paused(), "centering must pause the robot")

	code = doJSON(t, s, "POST", "/center_servos", `{"with_trim": false}`, nil)
	require.Equal(t, http.StatusOK, code)
}

func TestObstacleEndpoint(t *testing.T) {
	// No range finder wired
	s := newTestServer(t, nil)
	var out map[string]*float64
	code := doJSON(t, s, "GET", "/obstacle", "", &out)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, out["obstacle"])
	assert.Equal(t, float64(-1), *out["obstacle"])

	// Finder wired, but no sample collected yet
	s = newTestServer(t, sensor.NewMock(100))
	code = doJSON(t, s, "GET", "/obstacle", "", &out)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, out["obstacle"])
}

func TestWSRequiresUpgrade(t *testing.T) {
	s := newTestServer(t, nil)
	code := doJSON(t, s, "GET", "/ws", "", nil)
	assert.Equal(t, http.StatusUpgradeRequired, code)
}
