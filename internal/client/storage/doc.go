// Package storage is the key/value store shared by every running client
// context on a machine (SQLite) or across machines (Postgres).
//
// Every write is recorded in a change log in the same transaction. A context
// subscribes to the log and receives, in commit order, the changes made by
// other contexts; its own writes are never delivered back to it. Subscribers
// are woken by fsnotify events on the SQLite files or by Postgres
// LISTEN/NOTIFY, with periodic polling as a fallback.
package storage
