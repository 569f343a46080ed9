package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagshift/internal/models"
	"github.com/desertthunder/tagshift/internal/repositories"
	"github.com/desertthunder/tagshift/internal/shared"
)

// MigrationResult aggregates the outcome of one reconciliation run.
type MigrationResult struct {
	GroupsMigrated         int // Tags created from legacy groups in stage 1
	ContactsCreated        int // New contacts created in stage 3
	TotalSubscriberRecords int // Legacy subscription rows enumerated, including skipped ones
	TagsCreated            int // Total tags created across all stages
	LinksCreated           int // New contact/tag associations created
	SkippedNullSite        int // Subscriber rows discarded for having no site
}

// Reconciler defines the reconciliation operation for migrating the legacy
// subscriber/group dataset into the contact/tag model.
type Reconciler interface {
	// Reconcile runs the full four-stage pipeline. A nil site means all sites.
	// Every write is individually idempotent, so re-running after a failure is
	// the documented recovery path.
	Reconcile(ctx context.Context, site *int64, progress chan<- ProgressUpdate) (*MigrationResult, error)
}

// MigrationEngine implements [Reconciler] against SQLite-backed repositories.
//
// All dependencies are injected at construction; the engine holds no
// process-wide state, so concurrent test instances stay isolated. Within one
// invocation there is a single thread of control. Existence checks and inserts
// are separate statements without a spanning transaction, so two invocations
// racing on the same site can still create duplicate rows; run at most one
// invocation per site at a time.
type MigrationEngine struct {
	groups      *repositories.GroupRepository
	subscribers *repositories.SubscriberRepository
	tags        *repositories.TagRepository
	contacts    *repositories.ContactRepository
	links       *repositories.ContactTagRepository
	logger      *log.Logger
}

// NewMigrationEngine creates a MigrationEngine over the given database connection.
func NewMigrationEngine(db *sql.DB, logger *log.Logger) *MigrationEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &MigrationEngine{
		groups:      repositories.NewGroupRepository(db),
		subscribers: repositories.NewSubscriberRepository(db),
		tags:        repositories.NewTagRepository(db),
		contacts:    repositories.NewContactRepository(db),
		links:       repositories.NewContactTagRepository(db),
		logger:      logger,
	}
}

// contactPartition is one consolidated (site, email) group of subscriber rows.
//
// The contact is populated from the first row encountered for the key; the
// group name list accumulates memberships from every row in the partition.
type contactPartition struct {
	contact    *models.Contact
	site       int64
	status     models.SubscriberStatus // canonical row's status, drives the system tag
	groupNames []string
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *MigrationEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Reconcile runs the four migration stages strictly in order.
//
// The first storage failure aborts the run and propagates; data-integrity
// problems in the source rows (null site, orphaned group reference) are
// logged and counted, never raised.
func (e *MigrationEngine) Reconcile(ctx context.Context, site *int64, progress chan<- ProgressUpdate) (*MigrationResult, error) {
	if site != nil && *site < 0 {
		return nil, fmt.Errorf("%w: site must be non-negative, got %d", shared.ErrInvalidSiteFilter, *site)
	}

	result := &MigrationResult{}

	if err := e.projectGroups(ctx, site, progress, result); err != nil {
		return nil, err
	}

	if err := e.ensureSystemTags(ctx, site, progress, result); err != nil {
		return nil, err
	}

	partitions, err := e.consolidateContacts(ctx, site, progress, result)
	if err != nil {
		return nil, err
	}

	if err := e.assignTags(ctx, partitions, progress, result); err != nil {
		return nil, err
	}

	e.logger.Info("reconciliation complete",
		"groups_migrated", result.GroupsMigrated,
		"contacts_created", result.ContactsCreated,
		"subscriber_records", result.TotalSubscriberRecords,
		"tags_created", result.TagsCreated,
		"links_created", result.LinksCreated,
	)

	return result, nil
}

// projectGroups converts each legacy group into a user-defined tag, skipping
// tags that already exist. Existing tags are never overwritten.
func (e *MigrationEngine) projectGroups(ctx context.Context, site *int64, progress chan<- ProgressUpdate, result *MigrationResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	groups, err := e.groups.List(site)
	if err != nil {
		return fmt.Errorf("failed to enumerate groups: %w", err)
	}

	for i, group := range groups {
		e.sendProgress(progress, projectGroupsUpdate(i+1, len(groups), group.Name))

		existing, err := e.tags.FindByName(group.Site, group.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		tag := models.NewTag(0, group.Site, group.Name, group.Description, group.Color, false)
		if err := e.tags.Create(tag); err != nil {
			return err
		}

		result.GroupsMigrated++
		result.TagsCreated++
		e.logger.Debug("migrated group to tag", "site", group.Site, "name", group.Name)
	}

	e.logger.Info("group projection done", "groups", len(groups), "tags_created", result.GroupsMigrated)
	return nil
}

// ensureSystemTags guarantees both well-known system tags exist for every
// site seen in either the group or subscriber scope, including sites whose
// only legacy data is subscribers.
func (e *MigrationEngine) ensureSystemTags(ctx context.Context, site *int64, progress chan<- ProgressUpdate, result *MigrationResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	groupSites, err := e.groups.DistinctSites(site)
	if err != nil {
		return fmt.Errorf("failed to enumerate group sites: %w", err)
	}

	subscriberSites, err := e.subscribers.DistinctSites(site)
	if err != nil {
		return fmt.Errorf("failed to enumerate subscriber sites: %w", err)
	}

	seen := map[int64]bool{}
	sites := []int64{}
	for _, s := range append(groupSites, subscriberSites...) {
		if !seen[s] {
			seen[s] = true
			sites = append(sites, s)
		}
	}

	for i, s := range sites {
		e.sendProgress(progress, systemTagsUpdate(i+1, len(sites), s))

		for _, name := range []string{models.TagSubscribed, models.TagUnsubscribed} {
			if _, created, err := e.findOrCreateSystemTag(s, name); err != nil {
				return err
			} else if created {
				result.TagsCreated++
			}
		}
	}

	e.logger.Info("system tags ensured", "sites", len(sites))
	return nil
}

// consolidateContacts partitions subscriber rows by (email, site) and creates
// one contact per partition from its first row. Rows with no site are skipped
// and counted, not failed.
func (e *MigrationEngine) consolidateContacts(ctx context.Context, site *int64, progress chan<- ProgressUpdate, result *MigrationResult) ([]*contactPartition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subscribers, err := e.subscribers.List(site)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate subscribers: %w", err)
	}

	result.TotalSubscriberRecords = len(subscribers)

	// Partition by (email, site), preserving first-encountered order. The
	// first row for a key is canonical; later rows only contribute their
	// group membership.
	type key struct {
		email string
		site  int64
	}
	partitions := map[key]*contactPartition{}
	canonical := map[key]models.Subscriber{}
	var order []key

	for _, sub := range subscribers {
		if sub.Site == nil {
			result.SkippedNullSite++
			continue
		}

		k := key{email: sub.Email, site: *sub.Site}
		p, ok := partitions[k]
		if !ok {
			p = &contactPartition{site: *sub.Site, status: sub.Status}
			partitions[k] = p
			canonical[k] = sub
			order = append(order, k)
		}

		if sub.GroupName != "" && !slices.Contains(p.groupNames, sub.GroupName) {
			p.groupNames = append(p.groupNames, sub.GroupName)
		}
	}

	if result.SkippedNullSite > 0 {
		e.logger.Warn("skipped subscriber rows with no site", "count", result.SkippedNullSite)
	}

	for i, k := range order {
		p := partitions[k]
		e.sendProgress(progress, consolidateUpdate(i+1, len(order), k.email))

		existing, err := e.contacts.FindByEmail(k.site, k.email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			p.contact = existing
			continue
		}

		contact := models.NewContactFromSubscriber(0, k.site, canonical[k])
		if err := e.contacts.Create(contact); err != nil {
			return nil, err
		}

		p.contact = contact
		result.ContactsCreated++
		e.logger.Debug("created contact", "site", k.site, "email", k.email)
	}

	ordered := make([]*contactPartition, len(order))
	for i, k := range order {
		ordered[i] = partitions[k]
	}

	e.logger.Info("contact consolidation done",
		"subscriber_rows", len(subscribers),
		"contacts", len(ordered),
		"contacts_created", result.ContactsCreated,
	)
	return ordered, nil
}

// assignTags links each consolidated contact to a tag per legacy group
// membership, synthesizing tags for orphaned group references, then links
// exactly one status-derived system tag.
func (e *MigrationEngine) assignTags(ctx context.Context, partitions []*contactPartition, progress chan<- ProgressUpdate, result *MigrationResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, p := range partitions {
		e.sendProgress(progress, assignTagsUpdate(i+1, len(partitions), p.contact.Email()))

		for _, groupName := range p.groupNames {
			tag, err := e.tags.FindByName(p.site, groupName)
			if err != nil {
				return err
			}
			if tag == nil {
				// Orphaned reference: the group row was deleted or never
				// existed but a subscriber still points at it. Self-heal by
				// synthesizing the tag.
				tag = models.NewTag(0, p.site, groupName, models.OrphanTagDescription, models.GrayTagColor, false)
				if err := e.tags.Create(tag); err != nil {
					return err
				}
				result.TagsCreated++
				e.logger.Warn("synthesized tag for orphaned group reference", "site", p.site, "group", groupName)
			}

			created, err := e.links.Link(p.contact.ID(), tag.ID())
			if err != nil {
				return err
			}
			if created {
				result.LinksCreated++
			}
		}

		// Hard binary switch on the canonical row's status only.
		systemName := models.TagUnsubscribed
		if p.status == models.StatusConfirmed || p.status == models.StatusPending {
			systemName = models.TagSubscribed
		}

		systemTag, created, err := e.findOrCreateSystemTag(p.site, systemName)
		if err != nil {
			return err
		}
		if created {
			result.TagsCreated++
		}

		linked, err := e.links.Link(p.contact.ID(), systemTag.ID())
		if err != nil {
			return err
		}
		if linked {
			result.LinksCreated++
		}
	}

	e.logger.Info("tag assignment done", "contacts", len(partitions), "links_created", result.LinksCreated)
	return nil
}

// findOrCreateSystemTag resolves a well-known system tag for a site, creating
// it when absent. Existing tags are left untouched.
func (e *MigrationEngine) findOrCreateSystemTag(site int64, name string) (*models.Tag, bool, error) {
	existing, err := e.tags.FindByName(site, name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	tag := models.NewSystemTag(0, site, name)
	if err := e.tags.Create(tag); err != nil {
		return nil, false, err
	}
	return tag, true, nil
}
