/*
Package sqldataset stores frames in and reads frames from SQL databases.

Datasets use 2 database tables:
  * discreteValues, for storing the level names of categorical features
  * samples, with a column per feature

Samples are stored on the samples table, with their categorical values as
references to values in the discrete value table. Database specifics are
provided by an Adapter, see the sqlite3adapter and pgadapter packages.
*/
package sqldataset
