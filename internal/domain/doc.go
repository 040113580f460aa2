// Package domain contains the core business entities, value objects, and
// domain logic of the application: users, tasks, task priorities and
// statuses, and the password policy. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
