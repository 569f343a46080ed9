package repositories

import (
	"testing"

	"github.com/desertthunder/tagshift/internal/models"
	th "github.com/desertthunder/tagshift/internal/testing"
)

func TestTagRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := th.SetupDB(t)

		repo := NewTagRepository(db)
		tag := models.NewTag(0, 1, "VIP", "Very important", "", false)

		if err := repo.Create(tag); err != nil {
			t.Fatalf("failed to create tag: %v", err)
		}

		if tag.ID() == "" {
			t.Error("tag ID should be set after creation")
		}

		if tag.Color() != models.DefaultTagColor {
			t.Errorf("expected default color, got %s", tag.Color())
		}
	})

	t.Run("Create enforces unique site and name", func(t *testing.T) {
		db := th.SetupDB(t)

		repo := NewTagRepository(db)
		if err := repo.Create(models.NewTag(0, 1, "VIP", "", "", false)); err != nil {
			t.Fatalf("failed to create tag: %v", err)
		}

		if err := repo.Create(models.NewTag(0, 1, "VIP", "", "", false)); err == nil {
			t.Error("expected error for duplicate (site, name)")
		}

		// Same name on another site is fine
		if err := repo.Create(models.NewTag(0, 2, "VIP", "", "", false)); err != nil {
			t.Errorf("same name on another site should succeed: %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := th.SetupDB(t)

		repo := NewTagRepository(db)
		tag := models.NewTag(0, 1, "Newsletter", "", "bg-red-100 text-red-800", false)

		if err := repo.Create(tag); err != nil {
			t.Fatalf("failed to create tag: %v", err)
		}

		retrieved, err := repo.Get(tag.ID())
		if err != nil {
			t.Fatalf("failed to get tag: %v", err)
		}

		if retrieved.Name() != "Newsletter" {
			t.Errorf("expected name Newsletter, got %s", retrieved.Name())
		}
		if retrieved.Color() != "bg-red-100 text-red-800" {
			t.Errorf("unexpected color %s", retrieved.Color())
		}
	})

	t.Run("FindByName", func(t *testing.T) {
		db := th.SetupDB(t)

		repo := NewTagRepository(db)
		tag := models.NewSystemTag(0, 3, models.TagSubscribed)

		if err := repo.Create(tag); err != nil {
			t.Fatalf("failed to create tag: %v", err)
		}

		found, err := repo.FindByName(3, models.TagSubscribed)
		if err != nil {
			t.Fatalf("failed to find tag: %v", err)
		}
		if found == nil {
			t.Fatal("expected tag to be found")
		}
		if !found.IsSystem() {
			t.Error("expected system tag")
		}
		if found.Description() != models.SubscribedTagDescription {
			t.Errorf("unexpected description %q", found.Description())
		}

		absent, err := repo.FindByName(3, "NoSuchTag")
		if err != nil {
			t.Fatalf("unexpected error for absent tag: %v", err)
		}
		if absent != nil {
			t.Error("expected nil for absent tag")
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := th.SetupDB(t)

		repo := NewTagRepository(db)
		tag := models.NewTag(0, 1, "VIP", "", "", false)

		if err := repo.Create(tag); err != nil {
			t.Fatalf("failed to create tag: %v", err)
		}

		tag.SetDescription("Updated description")
		if err := repo.Update(tag); err != nil {
			t.Fatalf("failed to update tag: %v", err)
		}

		retrieved, err := repo.Get(tag.ID())
		if err != nil {
			t.Fatalf("failed to get tag: %v", err)
		}
		if retrieved.Description() != "Updated description" {
			t.Errorf("expected updated description, got %q", retrieved.Description())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := th.SetupDB(t)

		repo := NewTagRepository(db)
		tag := models.NewTag(0, 1, "VIP", "", "", false)

		if err := repo.Create(tag); err != nil {
			t.Fatalf("failed to create tag: %v", err)
		}

		if err := repo.Delete(tag.ID()); err != nil {
			t.Fatalf("failed to delete tag: %v", err)
		}

		if _, err := repo.Get(tag.ID()); err == nil {
			t.Error("expected error when getting deleted tag")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := th.SetupDB(t)

		repo := NewTagRepository(db)
		for _, name := range []string{"A", "B"} {
			if err := repo.Create(models.NewTag(0, 1, name, "", "", false)); err != nil {
				t.Fatalf("failed to create tag: %v", err)
			}
		}
		if err := repo.Create(models.NewSystemTag(0, 2, models.TagSubscribed)); err != nil {
			t.Fatalf("failed to create system tag: %v", err)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list tags: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 tags, got %d", len(all))
		}

		siteOne, err := repo.List(map[string]any{"site": int64(1)})
		if err != nil {
			t.Fatalf("failed to list tags: %v", err)
		}
		if len(siteOne) != 2 {
			t.Errorf("expected 2 tags for site 1, got %d", len(siteOne))
		}

		system, err := repo.List(map[string]any{"is_system": true})
		if err != nil {
			t.Fatalf("failed to list system tags: %v", err)
		}
		if len(system) != 1 {
			t.Errorf("expected 1 system tag, got %d", len(system))
		}
	})
}

func TestContactRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		db := th.SetupDB(t)

		repo := NewContactRepository(db)
		contact := models.NewContact(0, 1, "a@x.com", "Ada", models.StatusConfirmed)

		if err := repo.Create(contact); err != nil {
			t.Fatalf("failed to create contact: %v", err)
		}

		if contact.ID() == "" {
			t.Error("contact ID should be set after creation")
		}

		retrieved, err := repo.Get(contact.ID())
		if err != nil {
			t.Fatalf("failed to get contact: %v", err)
		}

		if retrieved.Email() != "a@x.com" {
			t.Errorf("expected email a@x.com, got %s", retrieved.Email())
		}
		if retrieved.Status() != models.StatusConfirmed {
			t.Errorf("expected status confirmed, got %s", retrieved.Status())
		}
	})

	t.Run("Name falls back to email local part", func(t *testing.T) {
		db := th.SetupDB(t)

		repo := NewContactRepository(db)
		contact := models.NewContact(0, 1, "grace@x.com", "", models.StatusPending)

		if err := repo.Create(contact); err != nil {
			t.Fatalf("failed to create contact: %v", err)
		}

		retrieved, err := repo.Get(contact.ID())
		if err != nil {
			t.Fatalf("failed to get contact: %v", err)
		}
		if retrieved.Name() != "grace" {
			t.Errorf("expected fallback name grace, got %q", retrieved.Name())
		}
	})

	t.Run("Create enforces unique site and email", func(t *testing.T) {
		db := th.SetupDB(t)

		repo := NewContactRepository(db)
		if err := repo.Create(models.NewContact(0, 1, "a@x.com", "", models.StatusPending)); err != nil {
			t.Fatalf("failed to create contact: %v", err)
		}

		if err := repo.Create(models.NewContact(0, 1, "a@x.com", "", models.StatusPending)); err == nil {
			t.Error("expected error for duplicate (site, email)")
		}
	})

	t.Run("FindByEmail", func(t *testing.T) {
		db := th.SetupDB(t)

		repo := NewContactRepository(db)
		contact := models.NewContact(0, 1, "a@x.com", "Ada", models.StatusUnsubscribed)

		if err := repo.Create(contact); err != nil {
			t.Fatalf("failed to create contact: %v", err)
		}

		found, err := repo.FindByEmail(1, "a@x.com")
		if err != nil {
			t.Fatalf("failed to find contact: %v", err)
		}
		if found == nil {
			t.Fatal("expected contact to be found")
		}
		if found.ID() != contact.ID() {
			t.Errorf("expected ID %s, got %s", contact.ID(), found.ID())
		}

		absent, err := repo.FindByEmail(2, "a@x.com")
		if err != nil {
			t.Fatalf("unexpected error for absent contact: %v", err)
		}
		if absent != nil {
			t.Error("expected nil for contact on another site")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := th.SetupDB(t)

		repo := NewContactRepository(db)
		if err := repo.Create(models.NewContact(0, 1, "a@x.com", "", models.StatusConfirmed)); err != nil {
			t.Fatalf("failed to create contact: %v", err)
		}
		if err := repo.Create(models.NewContact(0, 2, "b@x.com", "", models.StatusUnsubscribed)); err != nil {
			t.Fatalf("failed to create contact: %v", err)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list contacts: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 contacts, got %d", len(all))
		}

		unsubscribed, err := repo.List(map[string]any{"status": string(models.StatusUnsubscribed)})
		if err != nil {
			t.Fatalf("failed to list contacts: %v", err)
		}
		if len(unsubscribed) != 1 {
			t.Errorf("expected 1 unsubscribed contact, got %d", len(unsubscribed))
		}
	})
}

func TestContactTagRepository(t *testing.T) {
	setup := func(t *testing.T) (*ContactTagRepository, *models.Contact, *models.Tag) {
		db := th.SetupDB(t)

		contact := models.NewContact(0, 1, "a@x.com", "", models.StatusConfirmed)
		if err := NewContactRepository(db).Create(contact); err != nil {
			t.Fatalf("failed to create contact: %v", err)
		}

		tag := models.NewTag(0, 1, "VIP", "", "", false)
		if err := NewTagRepository(db).Create(tag); err != nil {
			t.Fatalf("failed to create tag: %v", err)
		}

		return NewContactTagRepository(db), contact, tag
	}

	t.Run("Link is idempotent", func(t *testing.T) {
		repo, contact, tag := setup(t)

		created, err := repo.Link(contact.ID(), tag.ID())
		if err != nil {
			t.Fatalf("failed to link: %v", err)
		}
		if !created {
			t.Error("expected first link to create an association")
		}

		again, err := repo.Link(contact.ID(), tag.ID())
		if err != nil {
			t.Fatalf("failed to link twice: %v", err)
		}
		if again {
			t.Error("expected duplicate link to no-op")
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 association, got %d", count)
		}
	})

	t.Run("Exists", func(t *testing.T) {
		repo, contact, tag := setup(t)

		exists, err := repo.Exists(contact.ID(), tag.ID())
		if err != nil {
			t.Fatalf("failed to check existence: %v", err)
		}
		if exists {
			t.Error("expected no association before linking")
		}

		if _, err := repo.Link(contact.ID(), tag.ID()); err != nil {
			t.Fatalf("failed to link: %v", err)
		}

		exists, err = repo.Exists(contact.ID(), tag.ID())
		if err != nil {
			t.Fatalf("failed to check existence: %v", err)
		}
		if !exists {
			t.Error("expected association after linking")
		}
	})

	t.Run("ListForContact", func(t *testing.T) {
		repo, contact, tag := setup(t)

		if _, err := repo.Link(contact.ID(), tag.ID()); err != nil {
			t.Fatalf("failed to link: %v", err)
		}

		tags, err := repo.ListForContact(contact.ID())
		if err != nil {
			t.Fatalf("failed to list tags: %v", err)
		}
		if len(tags) != 1 {
			t.Fatalf("expected 1 tag, got %d", len(tags))
		}
		if tags[0].Name() != "VIP" {
			t.Errorf("expected tag VIP, got %s", tags[0].Name())
		}
	})
}

func TestGroupRepository(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		db := th.SetupDB(t)

		th.InsertGroup(t, db, 1, "VIP", "Important subscribers", "bg-red-100 text-red-800")
		th.InsertGroup(t, db, 1, "Newsletter", "", "")
		th.InsertGroup(t, db, 2, "Beta", "", "")

		repo := NewGroupRepository(db)

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list groups: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 groups, got %d", len(all))
		}
		if all[0].Name != "VIP" || all[0].Description != "Important subscribers" {
			t.Errorf("unexpected first group: %+v", all[0])
		}

		siteOne, err := repo.List(th.Site(1))
		if err != nil {
			t.Fatalf("failed to list groups for site: %v", err)
		}
		if len(siteOne) != 2 {
			t.Errorf("expected 2 groups for site 1, got %d", len(siteOne))
		}
	})

	t.Run("DistinctSites", func(t *testing.T) {
		db := th.SetupDB(t)

		th.InsertGroup(t, db, 1, "VIP", "", "")
		th.InsertGroup(t, db, 1, "Newsletter", "", "")
		th.InsertGroup(t, db, 2, "Beta", "", "")

		repo := NewGroupRepository(db)

		sites, err := repo.DistinctSites(nil)
		if err != nil {
			t.Fatalf("failed to get sites: %v", err)
		}
		if len(sites) != 2 {
			t.Errorf("expected 2 distinct sites, got %d", len(sites))
		}
	})
}

func TestSubscriberRepository(t *testing.T) {
	t.Run("List preserves insertion order", func(t *testing.T) {
		db := th.SetupDB(t)

		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "First", "confirmed", "VIP")
		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "Second", "pending", "Newsletter")
		th.InsertSubscriber(t, db, nil, "ghost@x.com", "", "pending", "VIP")

		repo := NewSubscriberRepository(db)

		subs, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list subscribers: %v", err)
		}
		if len(subs) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(subs))
		}
		if subs[0].Name != "First" || subs[1].Name != "Second" {
			t.Error("expected rows in insertion order")
		}
		if subs[2].Site != nil {
			t.Error("expected nil site for row seeded without one")
		}
	})

	t.Run("List filters by site", func(t *testing.T) {
		db := th.SetupDB(t)

		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "", "confirmed", "VIP")
		th.InsertSubscriber(t, db, th.Site(2), "b@x.com", "", "confirmed", "VIP")

		repo := NewSubscriberRepository(db)

		subs, err := repo.List(th.Site(2))
		if err != nil {
			t.Fatalf("failed to list subscribers: %v", err)
		}
		if len(subs) != 1 || subs[0].Email != "b@x.com" {
			t.Errorf("expected only site 2 rows, got %+v", subs)
		}
	})

	t.Run("Count includes null-site rows when unscoped", func(t *testing.T) {
		db := th.SetupDB(t)

		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "", "confirmed", "VIP")
		th.InsertSubscriber(t, db, th.Site(2), "b@x.com", "", "confirmed", "VIP")
		th.InsertSubscriber(t, db, nil, "ghost@x.com", "", "pending", "VIP")

		repo := NewSubscriberRepository(db)

		total, err := repo.Count(nil)
		if err != nil {
			t.Fatalf("failed to count subscribers: %v", err)
		}
		if total != 3 {
			t.Errorf("expected 3 rows, got %d", total)
		}

		scoped, err := repo.Count(th.Site(1))
		if err != nil {
			t.Fatalf("failed to count site 1 subscribers: %v", err)
		}
		if scoped != 1 {
			t.Errorf("expected 1 row for site 1, got %d", scoped)
		}
	})

	t.Run("DistinctSites excludes null sites", func(t *testing.T) {
		db := th.SetupDB(t)

		th.InsertSubscriber(t, db, th.Site(1), "a@x.com", "", "confirmed", "VIP")
		th.InsertSubscriber(t, db, th.Site(3), "b@x.com", "", "confirmed", "VIP")
		th.InsertSubscriber(t, db, nil, "ghost@x.com", "", "pending", "VIP")

		repo := NewSubscriberRepository(db)

		sites, err := repo.DistinctSites(nil)
		if err != nil {
			t.Fatalf("failed to get sites: %v", err)
		}
		if len(sites) != 2 {
			t.Errorf("expected 2 distinct sites, got %d", len(sites))
		}
	})
}
