package tasks

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"

	"github.com/desertthunder/tagshift/internal/models"
	"github.com/desertthunder/tagshift/internal/repositories"
	"github.com/desertthunder/tagshift/internal/shared"
	th "github.com/desertthunder/tagshift/internal/testing"
)

func newTestEngine(t *testing.T) (*MigrationEngine, *sql.DB) {
	t.Helper()
	db := th.SetupDB(t)
	logger := shared.NewLogger(io.Discard)
	return NewMigrationEngine(db, logger), db
}

func tagNames(t *testing.T, db *sql.DB, contactID string) map[string]bool {
	t.Helper()
	tags, err := repositories.NewContactTagRepository(db).ListForContact(contactID)
	if err != nil {
		t.Fatalf("failed to list tags for contact: %v", err)
	}
	names := map[string]bool{}
	for _, tag := range tags {
		names[tag.Name()] = true
	}
	return names
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end scenario", func(t *testing.T) {
		engine, db := newTestEngine(t)

		th.InsertGroup(t, db, 1, "VIP", "Very important", "")
		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "Ada", "confirmed", "VIP")
		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "", "confirmed", "Newsletter")
		th.InsertSubscriber(t, db, th.Site(1), "b@x.com", "", "unsubscribed", "VIP")

		result, err := engine.Reconcile(ctx, nil, nil)
		if err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}

		if result.GroupsMigrated != 1 {
			t.Errorf("expected 1 group migrated, got %d", result.GroupsMigrated)
		}
		if result.ContactsCreated != 2 {
			t.Errorf("expected 2 contacts created, got %d", result.ContactsCreated)
		}
		if result.TotalSubscriberRecords != 3 {
			t.Errorf("expected 3 subscriber records, got %d", result.TotalSubscriberRecords)
		}

		// VIP + synthesized Newsletter + 2 system tags
		if got := th.CountRows(t, db, "tags"); got != 4 {
			t.Errorf("expected 4 tags, got %d", got)
		}

		contacts := repositories.NewContactRepository(db)

		a, err := contacts.FindByEmail(1, "a@x.com")
		if err != nil || a == nil {
			t.Fatalf("expected contact a@x.com, got %v (%v)", a, err)
		}
		if a.Name() != "Ada" {
			t.Errorf("expected canonical name Ada, got %q", a.Name())
		}

		aTags := tagNames(t, db, a.ID())
		for _, want := range []string{"VIP", "Newsletter", models.TagSubscribed} {
			if !aTags[want] {
				t.Errorf("expected a@x.com to have tag %s, has %v", want, aTags)
			}
		}
		if len(aTags) != 3 {
			t.Errorf("expected exactly 3 tags for a@x.com, got %v", aTags)
		}

		b, err := contacts.FindByEmail(1, "b@x.com")
		if err != nil || b == nil {
			t.Fatalf("expected contact b@x.com, got %v (%v)", b, err)
		}
		if b.UnsubscribedAt() == nil {
			t.Error("expected unsubscribed_at to be stamped for unsubscribed contact")
		}

		bTags := tagNames(t, db, b.ID())
		if !bTags["VIP"] || !bTags[models.TagUnsubscribed] || len(bTags) != 2 {
			t.Errorf("expected b@x.com tagged {VIP, Unsubscribed}, got %v", bTags)
		}
	})

	t.Run("idempotence", func(t *testing.T) {
		engine, db := newTestEngine(t)

		th.InsertGroup(t, db, 1, "VIP", "", "")
		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "", "confirmed", "VIP")
		th.InsertSubscriber(t, db, th.Site(1), "b@x.com", "", "unsubscribed", "Ghost")

		if _, err := engine.Reconcile(ctx, nil, nil); err != nil {
			t.Fatalf("first reconcile failed: %v", err)
		}

		tags := th.CountRows(t, db, "tags")
		contacts := th.CountRows(t, db, "contacts")
		links := th.CountRows(t, db, "contact_tags")

		second, err := engine.Reconcile(ctx, nil, nil)
		if err != nil {
			t.Fatalf("second reconcile failed: %v", err)
		}

		if got := th.CountRows(t, db, "tags"); got != tags {
			t.Errorf("second run created tags: %d -> %d", tags, got)
		}
		if got := th.CountRows(t, db, "contacts"); got != contacts {
			t.Errorf("second run created contacts: %d -> %d", contacts, got)
		}
		if got := th.CountRows(t, db, "contact_tags"); got != links {
			t.Errorf("second run created links: %d -> %d", links, got)
		}

		if second.TagsCreated != 0 || second.ContactsCreated != 0 || second.LinksCreated != 0 {
			t.Errorf("second run should create nothing, got %+v", second)
		}
	})

	t.Run("dedup merges duplicate subscriber rows", func(t *testing.T) {
		engine, db := newTestEngine(t)

		th.InsertGroup(t, db, 1, "G1", "", "")
		th.InsertGroup(t, db, 1, "G2", "", "")
		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "", "confirmed", "G1")
		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "", "confirmed", "G2")

		result, err := engine.Reconcile(ctx, nil, nil)
		if err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}
		if result.ContactsCreated != 1 {
			t.Errorf("expected 1 contact, got %d", result.ContactsCreated)
		}

		contact, err := repositories.NewContactRepository(db).FindByEmail(1, "a@x.com")
		if err != nil || contact == nil {
			t.Fatalf("expected consolidated contact, got %v (%v)", contact, err)
		}

		names := tagNames(t, db, contact.ID())
		if !names["G1"] || !names["G2"] || !names[models.TagSubscribed] || len(names) != 3 {
			t.Errorf("expected {G1, G2, Subscribed}, got %v", names)
		}
	})

	t.Run("orphaned group reference is self-healed", func(t *testing.T) {
		engine, db := newTestEngine(t)

		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "", "confirmed", "Ghost")

		if _, err := engine.Reconcile(ctx, nil, nil); err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}

		tag, err := repositories.NewTagRepository(db).FindByName(1, "Ghost")
		if err != nil {
			t.Fatalf("failed to find tag: %v", err)
		}
		if tag == nil {
			t.Fatal("expected Ghost tag to be synthesized")
		}
		if tag.IsSystem() {
			t.Error("synthesized tag should not be a system tag")
		}
		if tag.Description() != models.OrphanTagDescription {
			t.Errorf("unexpected description %q", tag.Description())
		}
		if tag.Color() != models.GrayTagColor {
			t.Errorf("unexpected color %q", tag.Color())
		}
	})

	t.Run("system tag exclusivity", func(t *testing.T) {
		engine, db := newTestEngine(t)

		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "", "confirmed", "G")
		th.InsertSubscriber(t, db, th.Site(1), "b@x.com", "", "pending", "G")
		th.InsertSubscriber(t, db, th.Site(1), "c@x.com", "", "unsubscribed", "G")
		// Duplicate rows with conflicting statuses: the first row is canonical
		th.InsertSubscriber(t, db, th.Site(1), "c@x.com", "", "confirmed", "G")

		if _, err := engine.Reconcile(ctx, nil, nil); err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}

		contacts := repositories.NewContactRepository(db)
		expected := map[string]string{
			"a@x.com": models.TagSubscribed,
			"b@x.com": models.TagSubscribed,
			"c@x.com": models.TagUnsubscribed,
		}

		for email, want := range expected {
			contact, err := contacts.FindByEmail(1, email)
			if err != nil || contact == nil {
				t.Fatalf("expected contact %s, got %v (%v)", email, contact, err)
			}

			names := tagNames(t, db, contact.ID())
			if !names[want] {
				t.Errorf("%s: expected system tag %s, got %v", email, want, names)
			}
			other := models.TagUnsubscribed
			if want == models.TagUnsubscribed {
				other = models.TagSubscribed
			}
			if names[other] {
				t.Errorf("%s: holds both system tags: %v", email, names)
			}
		}
	})

	t.Run("tenant completeness", func(t *testing.T) {
		engine, db := newTestEngine(t)

		// Site 1 has a group, site 2 only has subscribers
		th.InsertGroup(t, db, 1, "VIP", "", "")
		th.InsertSubscriber(t, db, th.Site(2), "a@x.com", "", "confirmed", "VIP")

		if _, err := engine.Reconcile(ctx, nil, nil); err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}

		tags := repositories.NewTagRepository(db)
		for _, site := range []int64{1, 2} {
			for _, name := range []string{models.TagSubscribed, models.TagUnsubscribed} {
				tag, err := tags.FindByName(site, name)
				if err != nil {
					t.Fatalf("failed to find tag: %v", err)
				}
				if tag == nil {
					t.Errorf("site %d missing system tag %s", site, name)
				} else if !tag.IsSystem() {
					t.Errorf("site %d tag %s should be a system tag", site, name)
				}
			}
		}
	})

	t.Run("null site rows are excluded", func(t *testing.T) {
		engine, db := newTestEngine(t)

		th.InsertSubscriber(t, db, nil, "ghost@x.com", "", "confirmed", "VIP")
		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "", "confirmed", "VIP")

		result, err := engine.Reconcile(ctx, nil, nil)
		if err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}

		if result.ContactsCreated != 1 {
			t.Errorf("expected 1 contact created, got %d", result.ContactsCreated)
		}
		if result.SkippedNullSite != 1 {
			t.Errorf("expected 1 skipped row, got %d", result.SkippedNullSite)
		}
		if result.TotalSubscriberRecords != 2 {
			t.Errorf("expected 2 total subscriber records, got %d", result.TotalSubscriberRecords)
		}

		ghost, err := repositories.NewContactRepository(db).FindByEmail(0, "ghost@x.com")
		if err != nil {
			t.Fatalf("failed to look up contact: %v", err)
		}
		if ghost != nil {
			t.Error("null-site subscriber should not become a contact")
		}
	})

	t.Run("site filter limits scope", func(t *testing.T) {
		engine, db := newTestEngine(t)

		th.InsertGroup(t, db, 1, "VIP", "", "")
		th.InsertGroup(t, db, 2, "Beta", "", "")
		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "", "confirmed", "VIP")
		th.InsertSubscriber(t, db, th.Site(2), "b@x.com", "", "confirmed", "Beta")

		result, err := engine.Reconcile(ctx, th.Site(1), nil)
		if err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}

		if result.GroupsMigrated != 1 {
			t.Errorf("expected only site 1 group migrated, got %d", result.GroupsMigrated)
		}
		if result.ContactsCreated != 1 {
			t.Errorf("expected only site 1 contact created, got %d", result.ContactsCreated)
		}

		other, err := repositories.NewContactRepository(db).FindByEmail(2, "b@x.com")
		if err != nil {
			t.Fatalf("failed to look up contact: %v", err)
		}
		if other != nil {
			t.Error("site 2 contact should not exist when filtering to site 1")
		}
	})

	t.Run("invalid site filter", func(t *testing.T) {
		engine, db := newTestEngine(t)

		th.InsertGroup(t, db, 1, "VIP", "", "")

		if _, err := engine.Reconcile(ctx, th.Site(-1), nil); !errors.Is(err, shared.ErrInvalidSiteFilter) {
			t.Errorf("expected ErrInvalidSiteFilter, got %v", err)
		}

		// Nothing ran
		if got := th.CountRows(t, db, "tags"); got != 0 {
			t.Errorf("no stage should run on invalid filter, found %d tags", got)
		}
	})

	t.Run("existing tags are never overwritten", func(t *testing.T) {
		engine, db := newTestEngine(t)

		tags := repositories.NewTagRepository(db)
		original := models.NewTag(0, 1, "VIP", "Hand-curated", "bg-pink-100 text-pink-800", false)
		if err := tags.Create(original); err != nil {
			t.Fatalf("failed to create tag: %v", err)
		}

		th.InsertGroup(t, db, 1, "VIP", "From legacy", "bg-red-100 text-red-800")
		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "", "confirmed", "VIP")

		if _, err := engine.Reconcile(ctx, nil, nil); err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}

		after, err := tags.FindByName(1, "VIP")
		if err != nil || after == nil {
			t.Fatalf("expected VIP tag, got %v (%v)", after, err)
		}
		if after.Description() != "Hand-curated" || after.Color() != "bg-pink-100 text-pink-800" {
			t.Errorf("existing tag was overwritten: %q / %q", after.Description(), after.Color())
		}
	})

	t.Run("existing contact is reused", func(t *testing.T) {
		engine, db := newTestEngine(t)

		contacts := repositories.NewContactRepository(db)
		existing := models.NewContact(0, 1, "a@x.com", "Existing", models.StatusConfirmed)
		if err := contacts.Create(existing); err != nil {
			t.Fatalf("failed to create contact: %v", err)
		}

		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "Legacy Name", "confirmed", "VIP")

		result, err := engine.Reconcile(ctx, nil, nil)
		if err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}
		if result.ContactsCreated != 0 {
			t.Errorf("expected no new contact, got %d", result.ContactsCreated)
		}

		names := tagNames(t, db, existing.ID())
		if !names["VIP"] {
			t.Errorf("expected existing contact to gain VIP tag, got %v", names)
		}
	})

	t.Run("progress updates are emitted", func(t *testing.T) {
		engine, db := newTestEngine(t)

		th.InsertGroup(t, db, 1, "VIP", "", "")
		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "", "confirmed", "VIP")

		progress := make(chan ProgressUpdate, 64)
		if _, err := engine.Reconcile(ctx, nil, progress); err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}
		close(progress)

		phases := map[Phase]bool{}
		for update := range progress {
			phases[update.Phase] = true
			if update.Message == "" {
				t.Error("expected non-empty progress message")
			}
		}

		for _, phase := range []Phase{ProjectGroups, EnsureSystemTags, ConsolidateContacts, AssignTags} {
			if !phases[phase] {
				t.Errorf("expected progress updates for phase %s", phase)
			}
		}
	})

	t.Run("storage failure aborts the run", func(t *testing.T) {
		engine, db := newTestEngine(t)

		th.InsertGroup(t, db, 1, "VIP", "", "")
		db.Close()

		if _, err := engine.Reconcile(ctx, nil, nil); err == nil {
			t.Error("expected error when storage is unavailable")
		}
	})
}
