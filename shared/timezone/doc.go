// Package timezone pins every wall-clock read to the application timezone (APP_TIMEZONE, IANA names
// such as "Asia/Makassar"; UTC when unset).
//
// Services take a Clock instead of calling Now directly:
//
//	clock := timezone.NewClock()                 // production
//	clock := timezone.Fixed(time.Date(...))      // tests
//
// Calendar dates of a stay are date.Date values and carry no timezone; only instants such as the
// booking time and audit timestamps go through this package.
package timezone
