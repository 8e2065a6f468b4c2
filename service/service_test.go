package service

import (
	"context"
	"errors"
	"testing"

	"leadboard/models"
	"leadboard/pipeline"
	"leadboard/storage"
	"leadboard/storage/storagetest"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db          *sqlx.DB
	campaigns   *CampaignService
	leads       *LeadService
	transitions *TransitionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storagetest.NewDB(t)
	cs := storage.NewCampaignStorage(db)
	ls := storage.NewLeadStorage(db)
	return &fixture{
		db:          db,
		campaigns:   NewCampaignService(cs, ls),
		leads:       NewLeadService(ls),
		transitions: NewTransitionService(cs, ls),
	}
}

func TestListCampaignsComputesMetrics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := storagetest.CreateUser(t, f.db, "owner")

	c := storagetest.CreateCampaign(t, f.db, user.ID, "Gynoveda", models.CampaignActive)
	storagetest.CreateLead(t, f.db, c, "a", models.LeadPending)
	storagetest.CreateLead(t, f.db, c, "b", models.LeadResponded)
	storagetest.CreateLead(t, f.db, c, "c", models.LeadConverted)
	empty := storagetest.CreateCampaign(t, f.db, user.ID, "Empty", models.CampaignDraft)

	list, err := f.campaigns.ListCampaigns(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, c.ID, list[0].ID)
	assert.Equal(t, 3, list[0].TotalLeads)
	assert.Equal(t, 2, list[0].SuccessfulLeads)
	assert.Equal(t, 67, list[0].ResponseRate())

	assert.Equal(t, empty.ID, list[1].ID)
	assert.Zero(t, list[1].TotalLeads)
	assert.Zero(t, list[1].ResponseRate())
}

func TestListCampaignsIsTenantScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := storagetest.CreateUser(t, f.db, "alice")
	b := storagetest.CreateUser(t, f.db, "bob")
	storagetest.CreateCampaign(t, f.db, a.ID, "Mine", models.CampaignActive)

	list, err := f.campaigns.ListCampaigns(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestListCampaignsKeepsOrderUnderFanOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := storagetest.CreateUser(t, f.db, "owner")

	var want []int64
	for i := 0; i < 10; i++ {
		c := storagetest.CreateCampaign(t, f.db, user.ID, "c", models.CampaignActive)
		for j := 0; j < i; j++ {
			storagetest.CreateLead(t, f.db, c, "l", models.LeadResponded)
		}
		want = append(want, c.ID)
	}

	list, err := f.campaigns.ListCampaigns(ctx, user.ID)
	require.NoError(t, err)
	for i, s := range list {
		assert.Equal(t, want[i], s.ID)
		assert.Equal(t, i, s.TotalLeads)
		assert.LessOrEqual(t, s.SuccessfulLeads, s.TotalLeads)
	}
}

func TestQueryCampaigns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := storagetest.CreateUser(t, f.db, "owner")
	storagetest.CreateCampaign(t, f.db, user.ID, "beta", models.CampaignActive)
	storagetest.CreateCampaign(t, f.db, user.ID, "Alpha", models.CampaignActive)
	storagetest.CreateCampaign(t, f.db, user.ID, "gamma", models.CampaignPaused)

	list, err := f.campaigns.QueryCampaigns(ctx, user.ID, pipeline.Config{
		StatusFilter: "Active",
		SortKey:      pipeline.SortByName,
		SortOrder:    pipeline.Ascending,
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "beta", list[1].Name)
}

func TestGetCampaign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := storagetest.CreateUser(t, f.db, "owner")
	other := storagetest.CreateUser(t, f.db, "other")
	c := storagetest.CreateCampaign(t, f.db, owner.ID, "C", models.CampaignActive)
	storagetest.CreateLead(t, f.db, c, "a", models.LeadConverted)

	detail, err := f.campaigns.GetCampaign(ctx, owner.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", detail.Name)
	assert.Len(t, detail.Leads, 1)
	assert.Equal(t, 1, detail.SuccessfulLeads)

	_, err = f.campaigns.GetCampaign(ctx, other.ID, c.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.campaigns.GetCampaign(ctx, owner.ID, c.ID+99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAndDeleteCampaign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := storagetest.CreateUser(t, f.db, "owner")
	other := storagetest.CreateUser(t, f.db, "other")

	req := models.CreateCampaignRequest{Name: "Launch"}
	require.NoError(t, req.Validate())
	created, err := f.campaigns.CreateCampaign(ctx, owner.ID, req)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.CampaignActive, created.Status)

	c := &models.Campaign{ID: created.ID, UserID: owner.ID}
	storagetest.CreateLead(t, f.db, c, "a", models.LeadPending)

	assert.ErrorIs(t, f.campaigns.DeleteCampaign(ctx, other.ID, created.ID), ErrForbidden)
	require.NoError(t, f.campaigns.DeleteCampaign(ctx, owner.ID, created.ID))
	assert.ErrorIs(t, f.campaigns.DeleteCampaign(ctx, owner.ID, created.ID), ErrNotFound)

	page, err := f.leads.ListLeads(ctx, owner.ID, LeadQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := storagetest.CreateUser(t, f.db, "owner")

	empty, err := f.campaigns.Summary(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardSummary{}, *empty)

	a := storagetest.CreateCampaign(t, f.db, user.ID, "A", models.CampaignActive)
	b := storagetest.CreateCampaign(t, f.db, user.ID, "B", models.CampaignDraft)
	storagetest.CreateLead(t, f.db, a, "1", models.LeadResponded)
	storagetest.CreateLead(t, f.db, a, "2", models.LeadPending)
	storagetest.CreateLead(t, f.db, b, "3", models.LeadPending)

	sum, err := f.campaigns.Summary(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardSummary{
		TotalCampaigns:  2,
		ActiveCampaigns: 1,
		TotalLeads:      3,
		TotalResponses:  1,
		AvgResponseRate: 33,
	}, *sum)
}

func TestUpdateLeadStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := storagetest.CreateUser(t, f.db, "owner")
	other := storagetest.CreateUser(t, f.db, "other")
	c := storagetest.CreateCampaign(t, f.db, owner.ID, "C", models.CampaignActive)
	lead := storagetest.CreateLead(t, f.db, c, "a", models.LeadPending)

	updated, err := f.transitions.UpdateLeadStatus(ctx, owner.ID, lead.ID, models.LeadConverted)
	require.NoError(t, err)
	assert.Equal(t, models.LeadConverted, updated.Status)
	assert.Equal(t, "C", updated.Campaign.Name)

	// any status may follow any other
	updated, err = f.transitions.UpdateLeadStatus(ctx, owner.ID, lead.ID, models.LeadPending)
	require.NoError(t, err)
	assert.Equal(t, models.LeadPending, updated.Status)

	_, err = f.transitions.UpdateLeadStatus(ctx, other.ID, lead.ID, models.LeadContacted)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.transitions.UpdateLeadStatus(ctx, owner.ID, lead.ID+99, models.LeadContacted)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.transitions.UpdateLeadStatus(ctx, owner.ID, lead.ID, "WON")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrStoreUnavailable)

	got, err := f.leads.GetLead(ctx, owner.ID, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadPending, got.Status, "rejected writes leave the lead untouched")
}

func TestUpdateLeadStatusChangesAggregates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := storagetest.CreateUser(t, f.db, "owner")
	c := storagetest.CreateCampaign(t, f.db, owner.ID, "C", models.CampaignActive)
	lead := storagetest.CreateLead(t, f.db, c, "a", models.LeadPending)

	_, err := f.transitions.UpdateLeadStatus(ctx, owner.ID, lead.ID, models.LeadResponded)
	require.NoError(t, err)

	list, err := f.campaigns.ListCampaigns(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].SuccessfulLeads)
	assert.Equal(t, 100, list[0].ResponseRate())
}

func TestUpdateCampaign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := storagetest.CreateUser(t, f.db, "owner")
	other := storagetest.CreateUser(t, f.db, "other")
	c := storagetest.CreateCampaign(t, f.db, owner.ID, "Old", models.CampaignActive)
	storagetest.CreateLead(t, f.db, c, "a", models.LeadResponded)

	paused := models.CampaignPaused
	updated, err := f.transitions.UpdateCampaign(ctx, owner.ID, c.ID, models.UpdateCampaignRequest{Status: &paused})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignPaused, updated.Status)
	assert.Equal(t, "Old", updated.Name)
	assert.Equal(t, 1, updated.TotalLeads)

	_, err = f.transitions.UpdateCampaign(ctx, other.ID, c.ID, models.UpdateCampaignRequest{Status: &paused})
	assert.ErrorIs(t, err, ErrForbidden)

	bogus := models.CampaignStatus("Archived")
	_, err = f.transitions.UpdateCampaign(ctx, owner.ID, c.ID, models.UpdateCampaignRequest{Status: &bogus})
	assert.Error(t, err)
}

func TestCreateAndDeleteLead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := storagetest.CreateUser(t, f.db, "owner")
	other := storagetest.CreateUser(t, f.db, "other")
	c := storagetest.CreateCampaign(t, f.db, owner.ID, "C", models.CampaignActive)

	req := models.CreateLeadRequest{Name: "Om", Email: "om@example.com", CampaignID: c.ID}
	require.NoError(t, req.Validate())

	_, err := f.transitions.CreateLead(ctx, other.ID, req)
	assert.ErrorIs(t, err, ErrForbidden)

	lead, err := f.transitions.CreateLead(ctx, owner.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "C", lead.Campaign.Name)
	assert.Equal(t, models.LeadPending, lead.Status)

	assert.ErrorIs(t, f.transitions.DeleteLead(ctx, other.ID, lead.ID), ErrForbidden)
	require.NoError(t, f.transitions.DeleteLead(ctx, owner.ID, lead.ID))
	_, err = f.leads.GetLead(ctx, owner.ID, lead.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListLeadsPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := storagetest.CreateUser(t, f.db, "owner")
	c := storagetest.CreateCampaign(t, f.db, owner.ID, "Acme Launch", models.CampaignActive)
	for _, name := range []string{"e", "d", "c", "b", "a"} {
		storagetest.CreateLead(t, f.db, c, name, models.LeadPending)
	}
	storagetest.CreateLead(t, f.db, c, "z", models.LeadResponded)

	q := LeadQuery{
		Pipeline: pipeline.Config{StatusFilter: "Pending", SortKey: pipeline.SortByName, SortOrder: pipeline.Ascending},
		Page:     1,
		Limit:    2,
	}
	page, err := f.leads.ListLeads(ctx, owner.ID, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(page.Items))
	require.NotNil(t, page.NextPage)
	assert.Equal(t, 2, *page.NextPage)

	q.Page = 3
	page, err = f.leads.ListLeads(ctx, owner.ID, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"e"}, names(page.Items))
	assert.Nil(t, page.NextPage)

	q.Pipeline = pipeline.Config{SearchQuery: "ACME"}
	q.Page, q.Limit = 1, 50
	page, err = f.leads.ListLeads(ctx, owner.ID, q)
	require.NoError(t, err)
	assert.Len(t, page.Items, 6, "campaign name is searchable")
}

func TestSeeder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := storagetest.CreateUser(t, f.db, "owner")
	seeder := NewSeeder(storage.NewCampaignStorage(f.db), storage.NewLeadStorage(f.db), 42)

	res, err := seeder.Seed(ctx, owner.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{Campaigns: 2, Leads: DefaultSeedLeads}, res)

	page, err := f.leads.ListLeads(ctx, owner.ID, LeadQuery{Page: 1, Limit: 100})
	require.NoError(t, err)
	require.Len(t, page.Items, DefaultSeedLeads)
	for _, l := range page.Items {
		assert.Contains(t, []models.LeadStatus{models.LeadPending, models.LeadContacted, models.LeadResponded}, l.Status)
		require.NotNil(t, l.LastContactDate)
		assert.True(t, l.LastContactDate.After(seeder.now().AddDate(0, 0, -31)))
	}

	sum, err := f.campaigns.Summary(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalCampaigns)
	assert.Equal(t, 1, sum.ActiveCampaigns)
	assert.Equal(t, DefaultSeedLeads, sum.TotalLeads)
}

type failingBatch struct{ LeadStore }

func (failingBatch) CreateBatch(context.Context, []*models.Lead) error { return errDown }

func TestSeederFailureLeavesAccountUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := storagetest.CreateUser(t, f.db, "owner")
	existing := storagetest.CreateCampaign(t, f.db, owner.ID, "Existing", models.CampaignActive)

	leads := storage.NewLeadStorage(f.db)
	seeder := NewSeeder(storage.NewCampaignStorage(f.db), failingBatch{leads}, 7)

	_, err := seeder.Seed(ctx, owner.ID, 5)
	require.ErrorIs(t, err, ErrStoreUnavailable)

	list, err := f.campaigns.ListCampaigns(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, existing.ID, list[0].ID)
}

var errDown = errors.New("connection refused")

type downCampaigns struct{ CampaignStore }

func (downCampaigns) ListByUser(context.Context, string) ([]models.Campaign, error) {
	return nil, errDown
}

type downLeads struct{ LeadStore }

func (downLeads) ListByUser(context.Context, string) ([]models.LeadView, error) {
	return nil, errDown
}

func (downLeads) ListByCampaign(context.Context, int64) ([]models.Lead, error) {
	return nil, errDown
}

type oneCampaign struct{ CampaignStore }

func (oneCampaign) ListByUser(context.Context, string) ([]models.Campaign, error) {
	return []models.Campaign{{ID: 1, Name: "x", UserID: "u"}}, nil
}

func TestStoreUnavailable(t *testing.T) {
	ctx := context.Background()

	_, err := NewCampaignService(downCampaigns{}, downLeads{}).ListCampaigns(ctx, "u")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, errDown)

	_, err = NewCampaignService(oneCampaign{}, downLeads{}).ListCampaigns(ctx, "u")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = NewLeadService(downLeads{}).ListLeads(ctx, "u", LeadQuery{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func names(items []models.LeadView) []string {
	out := make([]string, len(items))
	for i, l := range items {
		out[i] = l.Name
	}
	return out
}
