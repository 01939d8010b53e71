/*
Package cash defines a simple wallet implementation to store and move
multiple currencies. Other extensions can use the Controller interface to
safely move tokens between accounts without touching the wallet bucket
directly.
*/
package cash
