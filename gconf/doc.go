/*

Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each package keeps its configuration under a single, well known key. The
configuration is initialized from the genesis and can be altered by a
configuration patch message, authenticated by the configuration owner.

*/
package gconf
