package service

import (
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/bookingnum"
	redisx "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/redis"
	postgresrepo "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/repository/postgres"
	redisrepo "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/repository/redis"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/schema"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/service/admin"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/service/bookings"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/service/calendar"
)

type Services struct {
	Bookings *bookings.Service
	Calendar *calendar.Service
	Admin    *admin.Service
}

type Config struct {
	Bookings bookings.Config
	Calendar calendar.Config
}

func NewServices(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.BookingsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	gen *bookingnum.Generator,
	mapper *schema.Mapper,
	cfg Config,
) *Services {
	return &Services{
		Bookings: bookings.New(store, cache, pubsub, limiter, gen, mapper, cfg.Bookings),
		Calendar: calendar.New(store, cache, cfg.Calendar),
		Admin:    admin.New(store, gen),
	}
}
