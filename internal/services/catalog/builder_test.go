package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/domain"
)

// fakeSession serves canned HTML keyed by the currently selected trip type
type fakeSession struct {
	baseHTML     string
	perTripType  map[string]string
	selectedTrip string

	navigateErr error
	waitErr     error
	selectErr   error

	navigated []string
	selected  []string
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	s.navigated = append(s.navigated, url)
	return s.navigateErr
}

func (s *fakeSession) Fill(ctx context.Context, selector, value string) error { return nil }

func (s *fakeSession) Click(ctx context.Context, selector string) error { return nil }

func (s *fakeSession) SelectByValue(ctx context.Context, selector, value string) error {
	if s.selectErr != nil {
		return s.selectErr
	}
	s.selected = append(s.selected, value)
	s.selectedTrip = value
	return nil
}

func (s *fakeSession) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	return s.waitErr
}

func (s *fakeSession) Settle(ctx context.Context, d time.Duration) error { return nil }

func (s *fakeSession) Content(ctx context.Context) (string, error) {
	if html, ok := s.perTripType[s.selectedTrip]; ok {
		return html, nil
	}
	return s.baseHTML, nil
}

func (s *fakeSession) CurrentURL() string { return "http://remote.test/" }

func (s *fakeSession) Screenshot(ctx context.Context) ([]byte, error) { return nil, nil }

func (s *fakeSession) Close() error { return nil }

func destinationSelect(options string) string {
	return fmt.Sprintf(`<html><body>
<select id="trip-type">
  <option value="">Choose...</option>
  <option value="1">Daily trip</option>
  <option value="2">Annual multi-trip</option>
  <option value="3" disabled>Group trip</option>
</select>
<select id="origin-country">
  <option value="AR">Argentina</option>
  <option value="BR" disabled>Brasil</option>
  <option value="CL" style="display: none">Chile</option>
</select>
<select id="destination-country">%s</select>
<select id="agency">
  <option value="77" data-filter="partner">Acme Travel</option>
</select>
</body></html>`, options)
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		baseHTML: destinationSelect(`<option value="5">Europe</option>`),
		perTripType: map[string]string{
			"1": destinationSelect(`<option value="5">Europe</option><option value="9">North America</option>`),
			"2": destinationSelect(`<option value="12">Worldwide</option>`),
		},
	}
}

func newTestBuilder() *Builder {
	return NewBuilder(BuilderConfig{
		BaseURL:     "http://remote.test/",
		WaitTimeout: time.Second,
		SettleDelay: time.Millisecond,
	}, zap.NewNop())
}

func TestBuilder_Build(t *testing.T) {
	session := newFakeSession()

	cat, err := newTestBuilder().Build(context.Background(), session)
	require.NoError(t, err)

	require.Len(t, cat.TripTypes, 3)
	assert.Equal(t, "Daily trip", cat.TripTypes[0].Text)
	assert.True(t, cat.TripTypes[2].Disabled)

	// Disabled origins stay in the list, flagged; style-hidden ones are
	// dropped outright
	require.Len(t, cat.Origins, 2)
	assert.Equal(t, "AR", cat.Origins[0].Value)
	assert.False(t, cat.Origins[0].Disabled)
	assert.Equal(t, "BR", cat.Origins[1].Value)
	assert.True(t, cat.Origins[1].Disabled)

	// One destination list per enabled trip type, from the refreshed page;
	// the disabled trip type is never selected and gets no list
	require.Len(t, cat.Destinations["1"], 2)
	require.Len(t, cat.Destinations["2"], 1)
	assert.Equal(t, "12", cat.Destinations["2"][0].Value)
	_, scraped := cat.Destinations["3"]
	assert.False(t, scraped)

	require.Len(t, cat.Agents, 1)
	assert.Equal(t, "partner", cat.Agents[0].DataFilter)

	// Every enabled trip type was actually selected on the remote form
	assert.Equal(t, []string{"1", "2"}, session.selected)
	assert.False(t, cat.BuiltAt.IsZero())
}

func TestBuilder_MissingTripTypeSelectorIsFatal(t *testing.T) {
	session := newFakeSession()
	session.waitErr = errors.New("selector not found")

	_, err := newTestBuilder().Build(context.Background(), session)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRemoteInteractVal))
}

func TestBuilder_NavigationFailureIsFatal(t *testing.T) {
	session := newFakeSession()
	session.navigateErr = errors.New("connection refused")

	_, err := newTestBuilder().Build(context.Background(), session)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRemoteInteractVal))
}

func TestBuilder_DestinationFailureDegradesToEmpty(t *testing.T) {
	session := newFakeSession()
	session.selectErr = errors.New("element detached")

	cat, err := newTestBuilder().Build(context.Background(), session)
	require.NoError(t, err)

	// Both enabled trip types survive with empty destination lists
	require.Len(t, cat.TripTypes, 3)
	assert.Empty(t, cat.Destinations["1"])
	assert.Empty(t, cat.Destinations["2"])
}

func TestBuilder_ProgressCallback(t *testing.T) {
	session := newFakeSession()
	builder := newTestBuilder()

	var calls [][2]int
	builder.SetProgressCallback(func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})

	_, err := builder.Build(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, calls)
}
