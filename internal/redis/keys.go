package redisx

import "fmt"

const ns = "charters:v1"

func KeyBookingView(id string) string {
	return fmt.Sprintf("%s:booking:%s:view", ns, id)
}

func KeyCalendarFeed() string {
	return ns + ":calendar:feed"
}

// KeyRateLimit is a limiter prefix; the limiter appends the client id.
func KeyRateLimit(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}

func KeySequence(seqKey string) string {
	return fmt.Sprintf("%s:seq:%s", ns, seqKey)
}

func ChannelBookingsChanged() string {
	return ns + ":bookings:changed"
}
