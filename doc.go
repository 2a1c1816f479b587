/*
Package checksum computes, stores and verifies content digests for files in a
directory tree. The files can live on the local filesystem or on a remote host
that is reachable via SSH, in which case file access goes through SFTP and the
digests are calculated on the remote side with openssl.

Digests are written into one manifest file per content file, named after the
content file with an additional extension (.digest by default). Each manifest
line has the form

	MD5(report.pdf)= fda5eab2335987f56d7d3abe53734295

Manifests that are named after a single algorithm (report.pdf.md5 for example)
and manifests written by older releases can be verified as well.

See checksum-tools/cmd for the command line tool built on top of this package.
*/
package checksum
