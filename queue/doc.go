/*
Package queue defines the tasks that make up the frontier of a growing tree
as well as an interface for a Queue to manage them.

It also provides an in-memory FIFO implementation of the Queue interface,
which makes trees grow breadth first. Its Pull blocks while other workers
may still push tasks, so workers need not poll for the frontier to drain.
*/
package queue
