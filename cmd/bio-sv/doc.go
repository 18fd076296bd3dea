/*
bio-sv detects structural variants (insertions, deletions, inversions and
tandem duplications) and, given a reference FASTA, SNPs and short indels in
read alignments.

Usage:

  bio-sv -input-long-reads reads.bam -output calls.vcf
  bio-sv -input-short-reads reads.sam.gz -genome ref.fa -method cigar_string,snp_indel

Insertions and deletions at least -min-var-length bases long are taken from
the CIGAR of every alignment and turned into junctions. Junctions describing
the same event are clustered (-clustering-method), and each cluster with at
least -min-qual members is classified by its geometry. The calls are written
as VCFv4.3 with the cluster size as QUAL.

Options may also be read from a TOML file given by -config; flags set
explicitly take precedence. For example:

  input_long_reads = "reads.bam"
  method = ["cigar_string"]
  min_mapq = 30

  [clustering]
  clustering_method = "simple_clustering"
  partition_max_distance = 80

  [variant]
  min_var_length = 50

-junction-dump-output saves all junctions to a recordio file, which
-junction-dump-input reads back to rerun clustering and classification
without the alignments.
*/
package main
