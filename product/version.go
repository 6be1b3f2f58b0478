package product

// Version 版本号
const Version = "0.3.1"

// VersionID 版本编号，配置文件中记录，用于判断配置是否需要迁移
const VersionID = 3

// Name 程序名
const Name = "contentio"
