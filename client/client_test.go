package client_test

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"leadboard/client"
	"leadboard/config"
	"leadboard/handlers/api"
	"leadboard/models"
	"leadboard/pipeline"
	"leadboard/storage"
	"leadboard/storage/storagetest"
	"leadboard/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// newServer serves the real application over an in-memory listener and
// returns a client dialing it.
func newServer(t *testing.T, opts ...client.Option) *client.Client {
	t.Helper()
	require.NoError(t, utils.InitI18n())

	cfg := config.Default()
	cfg.JWT.Secret = "client-test-secret-value"
	cfg.Server.RateLimit = 0
	cfg.Server.DevRoutes = true

	sessions, err := storage.NewSessionStorage(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)

	app := api.NewApp(api.Deps{
		Config:    cfg,
		DB:        storagetest.NewDB(t),
		Sessions:  api.NewSessionStore(cfg, sessions),
		FakerSeed: 1,
	})

	ln := fasthttputil.NewInmemoryListener()
	go app.Listener(ln)
	t.Cleanup(func() {
		app.Shutdown()
		ln.Close()
		sessions.Close()
	})

	hc := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}
	return client.New("http://leadboard.test", append([]client.Option{client.WithHTTPClient(hc)}, opts...)...)
}

func TestClientEndToEnd(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)

	_, err := c.ListCampaigns(ctx, client.CampaignParams{})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)

	user, err := c.Register(ctx, models.RegisterRequest{Name: "Om", Email: "om@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "om@example.com", user.Email)
	assert.NotEmpty(t, c.Token())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	campaign, err := c.CreateCampaign(ctx, models.CreateCampaignRequest{Name: "Gynoveda"})
	require.NoError(t, err)
	for _, st := range []models.LeadStatus{models.LeadPending, models.LeadResponded, models.LeadConverted} {
		_, err := c.CreateLead(ctx, models.CreateLeadRequest{
			Name:       string(st),
			Email:      "lead@example.com",
			Status:     st,
			CampaignID: campaign.ID,
		})
		require.NoError(t, err)
	}

	list, err := c.ListCampaigns(ctx, client.CampaignParams{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].TotalLeads)
	assert.Equal(t, 2, list[0].SuccessfulLeads)
	assert.Equal(t, 67, list[0].ResponseRate())

	detail, err := c.GetCampaign(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Leads, 3)

	page, err := c.ListLeads(ctx, client.LeadParams{Status: "PENDING", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.NextPage)
	assert.Equal(t, "Gynoveda", page.Items[0].Campaign.Name)

	updated, err := c.UpdateLeadStatus(ctx, page.Items[0].ID, models.LeadContacted)
	require.NoError(t, err)
	assert.Equal(t, models.LeadContacted, updated.Status)

	_, err = c.GetLead(ctx, 99999)
	assert.True(t, client.IsNotFound(err))

	paused := models.CampaignPaused
	summary, err := c.UpdateCampaign(ctx, campaign.ID, models.UpdateCampaignRequest{Status: &paused})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignPaused, summary.Status)

	require.NoError(t, c.DeleteCampaign(ctx, campaign.ID))
	_, err = c.GetCampaign(ctx, campaign.ID)
	assert.True(t, client.IsNotFound(err))
}

func TestClientLoginAndSeed(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)

	_, err := c.Register(ctx, models.RegisterRequest{Name: "Om", Email: "om@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = c.Login(ctx, "om@example.com", "nope-nope")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Message)

	_, err = c.Login(ctx, "om@example.com", "password123")
	require.NoError(t, err)

	msg, err := c.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Seeded 2 campaigns and 15 leads", msg)

	sum, err := c.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, sum.TotalLeads)
}

func TestLeadFeedAgainstServer(t *testing.T) {
	ctx := context.Background()
	cache := client.NewQueryCache(0)
	c := newServer(t, client.WithCache(cache))

	_, err := c.Register(ctx, models.RegisterRequest{Name: "Om", Email: "om@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = c.Seed(ctx)
	require.NoError(t, err)

	before, err := c.ListCampaigns(ctx, client.CampaignParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Size())

	feed := client.NewLeadFeed(c, cache, 4)
	for feed.HasMore() {
		_, err := feed.FetchNext(ctx)
		require.NoError(t, err)
	}
	leads := feed.Snapshot()
	require.Len(t, leads, 15)

	target := leads[0]
	_, err = feed.UpdateStatus(ctx, target.ID, models.LeadConverted)
	require.NoError(t, err)
	assert.Zero(t, cache.Size())

	after, err := c.ListCampaigns(ctx, client.CampaignParams{})
	require.NoError(t, err)
	var successBefore, successAfter int
	for i := range before {
		successBefore += before[i].SuccessfulLeads
		successAfter += after[i].SuccessfulLeads
	}
	if target.Status.IsSuccessful() {
		assert.Equal(t, successBefore, successAfter)
	} else {
		assert.Equal(t, successBefore+1, successAfter)
	}

	view := feed.View(pipeline.Config{StatusFilter: "Converted"})
	require.NotEmpty(t, view)
	for _, l := range view {
		assert.Equal(t, models.LeadConverted, l.Status)
	}

	_, err = feed.UpdateStatus(ctx, 99999, models.LeadPending)
	assert.True(t, client.IsNotFound(err))
}
