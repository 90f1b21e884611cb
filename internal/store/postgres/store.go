package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turnkeeper/turnkeeper/internal/domain"
)

// uniqueViolation is the SQLSTATE code Postgres reports when an insert
// collides with a unique index.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type Store struct {
	pool          *pgxpool.Pool
	tenants       *TenantRepo
	users         *UserRepo
	teams         *TeamRepo
	memberships   *MembershipRepo
	workgroups    *WorkgroupRepo
	executorLinks *ExecutorLinkRepo
	threads       *ThreadRepo
	participants  *ParticipantRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:          pool,
		tenants:       NewTenantRepo(pool),
		users:         NewUserRepo(pool),
		teams:         NewTeamRepo(pool),
		memberships:   NewMembershipRepo(pool),
		workgroups:    NewWorkgroupRepo(pool),
		executorLinks: NewExecutorLinkRepo(pool),
		threads:       NewThreadRepo(pool),
		participants:  NewParticipantRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Tenants() domain.TenantRepository                 { return s.tenants }
func (s *Store) Users() domain.UserRepository                     { return s.users }
func (s *Store) Teams() domain.TeamRepository                     { return s.teams }
func (s *Store) Memberships() domain.MembershipRepository         { return s.memberships }
func (s *Store) Workgroups() domain.WorkgroupRepository           { return s.workgroups }
func (s *Store) ExecutorLinks() domain.ExecutorLinkRepository     { return s.executorLinks }
func (s *Store) Threads() domain.ThreadRepository                 { return s.threads }
func (s *Store) Participants() domain.ThreadParticipantRepository { return s.participants }
