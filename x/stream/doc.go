/*
Package stream implements continuous distribution token sales.

A stream sale distributes a fixed supply of an output token to all
subscribers over a time window. Subscribers deposit input tokens to mint
shares and earn a time weighted fraction of the supply. Accounting is done
lazily through a reward per share index, so the cost of an update does not
depend on the number of subscribers.
*/
package stream
