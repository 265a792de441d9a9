/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration entity, stored under the
"_c:<package name>" key. The configuration is loaded from the "conf" section
of the genesis file and can be updated later by the configuration owner using
a message handled by UpdateConfigurationHandler.

Not being able to load a configuration is a critical condition for the
extension and every operation depending on it must fail.
*/
package gconf
