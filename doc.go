/*
Package sigeas is the SIGEAS school management backend.

	apps/api    REST API (echo), wired with dig
	apps/admin  admin CLI: migrations, user creation, password resets
	core        domain packages: user, classroom, enrollment, grade, attendance, assignment
	services    logging (rollbar), session revocation (redis), spreadsheet reports
	storage     MySQL repositories (sqlx) plus an in-memory store for tests
*/
package sigeas
